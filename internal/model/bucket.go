package model

import (
	"errors"
	"fmt"
)

// Bucket is a repricing bucket with its approximate duration in years.
type Bucket struct {
	Name          string
	DurationYears float64
}

// BucketScheme is the fixed, ordered bucket set plus the tenor -> bucket lookup.
type BucketScheme struct {
	Buckets []Bucket
	ByTenor map[Tenor]string
}

// ErrTenorRemapped is returned when a tenor is assigned to a second bucket.
var ErrTenorRemapped = errors.New("tenor already mapped")

// Map assigns tenor t to bucket. A tenor belongs to exactly one bucket.
func (s *BucketScheme) Map(t Tenor, bucket string) error {
	if s.ByTenor == nil {
		s.ByTenor = map[Tenor]string{}
	}
	if prev, ok := s.ByTenor[t]; ok && prev != bucket {
		return fmt.Errorf("tenor %q mapped to both %q and %q: %w", t, prev, bucket, ErrTenorRemapped)
	}
	s.ByTenor[t] = bucket
	return nil
}

// BucketFor returns the bucket name for tenor t, or *UnmappedTenorError.
func (s BucketScheme) BucketFor(t Tenor) (string, error) {
	name, ok := s.ByTenor[t]
	if !ok {
		return "", &UnmappedTenorError{Tenor: t}
	}
	return name, nil
}

func (s BucketScheme) Validate() error {
	if len(s.Buckets) == 0 {
		return errors.New("bucket scheme has no buckets")
	}
	names := make(map[string]bool, len(s.Buckets))
	for _, b := range s.Buckets {
		if b.Name == "" {
			return errors.New("bucket name is required")
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate bucket %q", b.Name)
		}
		if b.DurationYears < 0 {
			return fmt.Errorf("bucket %q: duration must be >= 0", b.Name)
		}
		names[b.Name] = true
	}
	for t, name := range s.ByTenor {
		if !names[name] {
			return fmt.Errorf("tenor %q maps to unknown bucket %q", t, name)
		}
	}
	return nil
}
