package utils

import "log"

// Must aborts startup on an unrecoverable wiring error.
func Must(e error) {
	if e != nil {
		log.Fatal(e)
	}
}
