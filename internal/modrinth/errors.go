package modrinth

import "fmt"

// StatusError is returned when the API answers with a status other than 200
// or 404.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}
