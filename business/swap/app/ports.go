// Package app contains swap templates and port definitions for the swap context.
package app

import (
	"context"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
)

// Reader performs read-only contract calls. Chain sessions satisfy it.
type Reader interface {
	Read(ctx context.Context, call chaindomain.Call) ([]byte, error)
}
