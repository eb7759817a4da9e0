package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match what
// API clients send.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Post is a single blog entry. ID is the slug of the title at creation time.
type Post struct {
	ID       string    `json:"id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=200"`
	Excerpt  string    `json:"excerpt"`
	Content  string    `json:"content" validate:"required"`
	ImageURL string    `json:"imageUrl" validate:"omitempty,url"`
	Author   string    `json:"author" validate:"required"`
	Date     time.Time `json:"date"`
	Tags     []string  `json:"tags"`
}

// DailyQuote is the quote of the day shown on the front page.
type DailyQuote struct {
	Text   string `json:"text" validate:"required"`
	Author string `json:"author" validate:"required"`
}
