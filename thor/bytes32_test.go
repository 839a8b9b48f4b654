// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("boost-weight"))

	parsed, err := ParseBytes32(b.String())
	assert.NoError(t, err)
	assert.Equal(t, b, parsed)

	parsed, err = ParseBytes32(b.String()[2:])
	assert.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseBytes32("0X" + strings.Repeat("zz", 32))
	assert.Error(t, err)
}

func TestHashes(t *testing.T) {
	a, b := []byte("boost"), []byte("weight")
	assert.Equal(t, Blake2b(append(a, b...)), Blake2b(a, b))
	assert.Equal(t, Keccak256(append(a, b...)), Keccak256(a, b))
	assert.NotEqual(t, Blake2b(a), Keccak256(a))
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
}

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("user"))
	parsed, err := ParseAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	var text Address
	assert.NoError(t, text.UnmarshalText([]byte(addr.String())))
	assert.Equal(t, addr, text)

	_, err = ParseAddress("0x00")
	assert.Error(t, err)
}

func TestCreateSourceAddress(t *testing.T) {
	a := CreateSourceAddress("sICX/ICX")
	b := CreateSourceAddress("sICX/ICX")
	c := CreateSourceAddress("BALN/bnUSD")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.False(t, a.IsZero())
}

func TestDayBoundaries(t *testing.T) {
	assert.Equal(t, uint64(0), DayOf(0))
	assert.Equal(t, uint64(0), DayOf(MicrosecondsPerDay-1))
	assert.Equal(t, uint64(1), DayOf(MicrosecondsPerDay))
	assert.Equal(t, 2*MicrosecondsPerDay, DayEnd(1))
	assert.Equal(t, "1000000000000000000", Scale.String())
}
