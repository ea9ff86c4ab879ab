package assets

import (
	"fmt"
	"math/big"
)

// Uint128ByteSize is the wire size of an unsigned 128 bit integer.
const Uint128ByteSize = 16

// MaxUint128 is the largest representable fungible amount or instance index.
var MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// uint128ToBytes encodes v as fixed 16 bytes little endian.
func uint128ToBytes(v *big.Int) ([]byte, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return nil, fmt.Errorf("can not encode %v as uint128: %w", v, ErrAmountOverflow)
	}
	b := make([]byte, Uint128ByteSize)
	v.FillBytes(b)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b, nil
}

// uint128FromBytes decodes fixed 16 bytes little endian into a new big.Int.
func uint128FromBytes(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// uint128OrderingBytes encodes v as fixed 16 bytes big endian, the byte order
// whose lexical comparison equals numeric comparison. Values outside the range
// map to zero, assets carrying them fail validation anyway.
func uint128OrderingBytes(v *big.Int) []byte {
	b := make([]byte, Uint128ByteSize)
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return b
	}
	v.FillBytes(b)
	return b
}

// addUint128 returns x+y or ErrAmountOverflow if the sum no longer fits into 128 bits.
func addUint128(x, y *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(x, y)
	if sum.BitLen() > 128 {
		return nil, fmt.Errorf("%d + %d: %w", x, y, ErrAmountOverflow)
	}
	return sum, nil
}
