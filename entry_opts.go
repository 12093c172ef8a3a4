package rsc

import "time"

// ResourceOption configures a Resource built by NewResource.
type ResourceOption func(*Resource)

// WithEncrypted marks the content as ciphertext.
func WithEncrypted(encrypted bool) ResourceOption {
	return func(r *Resource) {
		r.Encrypted = encrypted
	}
}

// WithAdded sets the time the asset was added. Sub-second precision is
// dropped.
func WithAdded(t time.Time) ResourceOption {
	return func(r *Resource) {
		r.Added = t.Truncate(time.Second)
	}
}

// WithModified sets the time the asset was last modified. Sub-second
// precision is dropped.
func WithModified(t time.Time) ResourceOption {
	return func(r *Resource) {
		r.Modified = t.Truncate(time.Second)
	}
}

// WithPadding sets trailing bytes written after the content.
func WithPadding(padding []byte) ResourceOption {
	return func(r *Resource) {
		r.Padding = padding
	}
}
