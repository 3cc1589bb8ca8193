package cryptox

import (
	"crypto/ed25519"
	"encoding/base32"
	"encoding/binary"
	"errors"
)

// Account addresses follow the Stellar "G..." layout: one version byte, the
// 32-byte ed25519 key and a little-endian CRC16-XModem checksum, base32
// encoded without padding.
const versionByteAccountID byte = 6 << 3

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrBadSignature   = errors.New("signature does not match address")
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeAddress renders pub as an account address.
func EncodeAddress(pub ed25519.PublicKey) string {
	raw := make([]byte, 0, 1+len(pub)+2)
	raw = append(raw, versionByteAccountID)
	raw = append(raw, pub...)
	raw = binary.LittleEndian.AppendUint16(raw, crc16(raw))
	return b32.EncodeToString(raw)
}

// DecodeAddress validates address and returns the embedded public key.
func DecodeAddress(address string) (ed25519.PublicKey, error) {
	raw, err := b32.DecodeString(address)
	if err != nil {
		return nil, ErrInvalidAddress
	}
	if len(raw) != 1+ed25519.PublicKeySize+2 || raw[0] != versionByteAccountID {
		return nil, ErrInvalidAddress
	}
	body, sum := raw[:len(raw)-2], raw[len(raw)-2:]
	if binary.LittleEndian.Uint16(sum) != crc16(body) {
		return nil, ErrInvalidAddress
	}
	return ed25519.PublicKey(body[1:]), nil
}

// ShortAddress renders "GABC...WXYZ" for display.
func ShortAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}

// crc16 is CRC-16/XMODEM (poly 0x1021, init 0).
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
