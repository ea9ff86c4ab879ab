package assets

// Limits holds the protocol version specific bounds applied while encoding and
// decoding asset payloads. The concrete numbers are deployment configuration,
// they are passed down to every codec call as the deSeriCtx.
type Limits struct {
	// MaxAbstractTagLength is the maximum byte length of an abstract asset ID tag.
	MaxAbstractTagLength int
	// MaxBlobLength is the maximum byte length of a blob asset instance.
	MaxBlobLength int
	// MaxAssetCount is the maximum count of assets within one collection.
	MaxAssetCount uint
}

// DefaultLimits are the bounds used when no explicit Limits are supplied.
var DefaultLimits = &Limits{
	MaxAbstractTagLength: 32,
	MaxBlobLength:        128,
	MaxAssetCount:        128,
}

// LimitsFromContext extracts Limits from a deSeriCtx, falling back to DefaultLimits.
func LimitsFromContext(deSeriCtx interface{}) *Limits {
	if l, ok := deSeriCtx.(*Limits); ok && l != nil {
		return l
	}
	return DefaultLimits
}
