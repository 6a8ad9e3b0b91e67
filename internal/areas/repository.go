package areas

import (
	"context"
	"errors"
	"fmt"
)

// RecordRepository persists area records.
type RecordRepository interface {
	GetByArea(ctx context.Context, area Area) (*Record, error)
	Create(ctx context.Context, record *Record) (*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

// ErrRecordExists is returned by Create when the area already has a row.
var ErrRecordExists = errors.New("areas: record already exists")

// NotFoundError is returned when an area has no stored row.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
