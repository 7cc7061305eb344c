// Package sharefile reads and writes share payload documents:
//
//	{
//	    "keys": {"n": 4, "k": 3},
//	    "1": {"base": "10", "value": "4"},
//	    "2": {"base": "2", "value": "111"},
//	    ...
//	}
//
// Every top-level key other than "keys" that is a non-negative decimal
// integer is a share label; its value string is decoded in the given base
// (2 to 36). Shares keep the order they appear in the document.
package sharefile

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/ruteri/shamir-reconstruct/interfaces"
)

var (
	// ErrMalformedPayload is returned for documents that do not follow the payload layout.
	ErrMalformedPayload = errors.New("malformed share payload")

	// ErrInvalidBase is returned for share bases outside 2..36.
	ErrInvalidBase = errors.New("invalid numeric base")

	// ErrInvalidValue is returned when a share value cannot be decoded in its base.
	ErrInvalidValue = errors.New("invalid share value")
)

const (
	MinBase = 2
	MaxBase = 36
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Read decodes a payload from r.
func Read(r io.Reader) (*interfaces.SharePayload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return Decode(data)
}

// Decode parses a payload document.
func Decode(data []byte) (*interfaces.SharePayload, error) {
	iter := jsoniter.ParseBytes(json, data)
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, fmt.Errorf("%w: top level value must be an object", ErrMalformedPayload)
	}

	payload := &interfaces.SharePayload{N: -1, K: -1}
	var decodeErr error

	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		if field == "keys" {
			decodeErr = readKeys(it, payload)
			return decodeErr == nil
		}

		label, ok := new(big.Int).SetString(field, 10)
		if !ok || label.Sign() < 0 {
			it.Skip()
			return it.Error == nil
		}

		share, base, err := readShare(it, field, label)
		if err != nil {
			decodeErr = err
			return false
		}
		payload.Shares = append(payload.Shares, share)
		payload.Bases = append(payload.Bases, base)
		return true
	})

	if decodeErr != nil {
		return nil, decodeErr
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, iter.Error)
	}
	if payload.N < 0 || payload.K < 0 {
		return nil, fmt.Errorf("%w: could not find n and k in \"keys\"", ErrMalformedPayload)
	}

	return payload, nil
}

func readKeys(it *jsoniter.Iterator, payload *interfaces.SharePayload) error {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return fmt.Errorf("%w: \"keys\" must be an object", ErrMalformedPayload)
	}

	var err error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "n":
			payload.N, err = readInt(it, "keys.n")
		case "k":
			payload.K, err = readInt(it, "keys.k")
		default:
			it.Skip()
		}
		return err == nil && it.Error == nil
	})
	if err != nil {
		return err
	}
	if it.Error != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, it.Error)
	}
	return nil
}

func readShare(it *jsoniter.Iterator, field string, label *big.Int) (interfaces.Share, int, error) {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return interfaces.Share{}, 0, fmt.Errorf("%w: share %q must be an object", ErrMalformedPayload, field)
	}

	var (
		base              int
		value             string
		hasBase, hasValue bool
		err               error
	)
	it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		switch key {
		case "base":
			base, err = readInt(it, fmt.Sprintf("share %s base", field))
			hasBase = true
		case "value":
			if it.WhatIsNext() != jsoniter.StringValue {
				err = fmt.Errorf("%w: share %s value must be a string", ErrMalformedPayload, field)
				return false
			}
			value = it.ReadString()
			hasValue = true
		default:
			it.Skip()
		}
		return err == nil && it.Error == nil
	})
	if err != nil {
		return interfaces.Share{}, 0, err
	}
	if it.Error != nil {
		return interfaces.Share{}, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, it.Error)
	}
	if !hasBase || !hasValue {
		return interfaces.Share{}, 0, fmt.Errorf("%w: share %s needs both base and value", ErrMalformedPayload, field)
	}

	y, err := DecodeValue(value, base)
	if err != nil {
		return interfaces.Share{}, 0, fmt.Errorf("share %s: %w", field, err)
	}

	return interfaces.Share{Label: label, Value: y}, base, nil
}

// readInt accepts either a JSON number or a string holding a decimal integer.
func readInt(it *jsoniter.Iterator, what string) (int, error) {
	switch it.WhatIsNext() {
	case jsoniter.NumberValue:
		n, err := strconv.Atoi(string(it.ReadNumber()))
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedPayload, what)
		}
		return n, nil
	case jsoniter.StringValue:
		n, err := strconv.Atoi(it.ReadString())
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedPayload, what)
		}
		return n, nil
	default:
		it.Skip()
		return 0, fmt.Errorf("%w: %s must be a number or a numeric string", ErrMalformedPayload, what)
	}
}

// DecodeValue parses a non-negative integer written in the given base.
func DecodeValue(value string, base int) (*big.Int, error) {
	if base < MinBase || base > MaxBase {
		return nil, fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidBase, base, MinBase, MaxBase)
	}
	y, ok := new(big.Int).SetString(value, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base %d integer", ErrInvalidValue, value, base)
	}
	if y.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidValue, value)
	}
	return y, nil
}

// Encode writes a payload in document order: keys first, then every share.
// Values are rendered in the base recorded for them, or base 10.
func Encode(p *interfaces.SharePayload) ([]byte, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField("keys")
	stream.WriteObjectStart()
	stream.WriteObjectField("n")
	stream.WriteInt(p.N)
	stream.WriteMore()
	stream.WriteObjectField("k")
	stream.WriteInt(p.K)
	stream.WriteObjectEnd()

	for i, s := range p.Shares {
		base := 10
		if i < len(p.Bases) && p.Bases[i] != 0 {
			base = p.Bases[i]
		}
		if base < MinBase || base > MaxBase {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBase, base)
		}
		if s.Label == nil || s.Label.Sign() < 0 {
			return nil, fmt.Errorf("%w: share %d has no non-negative label", ErrMalformedPayload, i)
		}

		stream.WriteMore()
		stream.WriteObjectField(s.Label.String())
		stream.WriteObjectStart()
		stream.WriteObjectField("base")
		stream.WriteString(strconv.Itoa(base))
		stream.WriteMore()
		stream.WriteObjectField("value")
		stream.WriteString(s.Value.Text(base))
		stream.WriteObjectEnd()
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
