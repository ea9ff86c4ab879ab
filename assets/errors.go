package assets

import "errors"

var (
	// ErrInvalidOrDuplicateAsset gets returned when a MultiAssets sequence is not in
	// strictly ascending canonical order or carries two fungible entries for the same asset ID.
	ErrInvalidOrDuplicateAsset = errors.New("asset collection violates canonical order or uniqueness")
	// ErrAmountOverflow gets returned when merging fungible amounts for the same asset ID
	// exceeds the representable 128 bit range.
	ErrAmountOverflow = errors.New("fungible amount overflows 128 bits")
	// ErrLengthExceeded gets returned when a variable length payload exceeds its configured maximum.
	ErrLengthExceeded = errors.New("variable length payload exceeds maximum length")
	// ErrInvalidAssetAmount gets returned when a fungible asset carries a zero or negative amount.
	ErrInvalidAssetAmount = errors.New("fungible amount must be greater than zero")
	// ErrUnknownVariant gets returned when a type byte does not select any known variant.
	ErrUnknownVariant = errors.New("unknown variant type")
)
