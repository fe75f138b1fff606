// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user input before it reaches the ledger.
//
// A [Validator] accepts a request model and an optional list of field
// names. Without field names every rule for the model runs; with them only
// the named fields are checked, in the given order.
//
// Every failure matches [ErrInvalidDataProvided] via errors.Is.
package validators

import "context"

// Validator validates the provided input and optionally restricts the
// check to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
