package proof

import "errors"

var (
	ErrProofNotFound   = errors.New("proof not found")
	ErrInvalidProofKey = errors.New("invalid proof key")
	ErrSavingProof     = errors.New("error saving proof")
	ErrReadingProof    = errors.New("error reading proof")
	ErrDeletingProof   = errors.New("error deleting proof")
)
