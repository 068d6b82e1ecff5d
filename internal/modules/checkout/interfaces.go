package checkout

import "context"

// SessionParams is a processor-neutral description of a single line-item checkout.
type SessionParams struct {
	Currency      string
	UnitAmount    int64
	ProductName   string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type Session struct {
	ID  string
	URL string
}

type SessionCreator interface {
	CreateSession(ctx context.Context, p SessionParams) (*Session, error)
}
