package models

// FallbackQuote is served whenever no quote has been saved or the store
// cannot be read.
var FallbackQuote = DailyQuote{
	Text:   "Success is not final, failure is not fatal: it is the courage to continue that counts.",
	Author: "Winston Churchill",
}

// Validate checks that both text and author are present
func (q *DailyQuote) Validate() error {
	return validate.Struct(q)
}
