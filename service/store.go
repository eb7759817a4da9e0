package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"folio/app/repositories"
)

// ErrCancelled is returned when the operator declines a confirmation prompt.
var ErrCancelled = errors.New("operation cancelled")

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// backupDB writes a full badger backup of the local store at dbPath into
// dir and returns the file name.
func backupDB(dbPath, dir string, now time.Time) (string, error) {
	if !exists(dbPath) {
		return "", fmt.Errorf("no database exists at %s", dbPath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", now.Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return "", fmt.Errorf("backing up database: %w", err)
	}
	return backupFile, nil
}

// restoreDB replaces the local store at dbPath with the contents of
// backupFile.
func restoreDB(dbPath, backupFile string) (err error) {
	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("removing existing database: %w", err)
	}
	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Load panics on some corrupt inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("restoring database: %v", r)
		}
	}()
	if err := db.Load(f, 4); err != nil {
		return fmt.Errorf("restoring database: %w", err)
	}
	return nil
}
