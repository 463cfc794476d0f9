package crypto

import (
	"testing"

	"wrapvault/common/ahash"
)

func TestECDSASign(t *testing.T) {
	data := "hello"
	key := MustGenPrvKey()
	datahash := ahash.SHA256([]byte(data))
	signed, err := ECDSASign(datahash, key)
	if err != nil {
		t.Fatal(err)
	}
	if verified := ECDSAVerifySignature(key.PublicKey, datahash, signed); !verified {
		t.Fatal("check sign failed")
	}
}

func TestSigToPub(t *testing.T) {
	key := MustGenPrvKey()
	datahash := ahash.SHA256([]byte("recover me"))
	signed, err := ECDSASign(datahash, key)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := SigToPub(datahash, signed)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultPubKey2Addr(key.PublicKey)
	got := DefaultPubKey2Addr(*pub)
	if !want.Equals(got) {
		t.Fatalf("recovered address mismatch: %s != %s", got.B58String(), want.B58String())
	}
}

func TestSigToPubBadLength(t *testing.T) {
	datahash := ahash.SHA256([]byte("x"))
	if _, err := SigToPub(datahash, make([]byte, 64)); err == nil {
		t.Fatal("want error for 64-byte signature")
	}
}

func TestAddressScheme(t *testing.T) {
	key := MustGenPrvKey()
	addr := DefaultPubKey2Addr(key.PublicKey)
	if !VerifyAddress(addr) {
		t.Fatalf("checksum failed for %s", addr.B58String())
	}
	if addr.Version() != 1 {
		t.Fatalf("version byte: %d", addr.Version())
	}
}

func TestCreateAddressDeterministic(t *testing.T) {
	key := MustGenPrvKey()
	creator := DefaultPubKey2Addr(key.PublicKey)
	a := CreateAddress(creator, 0)
	b := CreateAddress(creator, 0)
	c := CreateAddress(creator, 1)
	if !a.Equals(b) {
		t.Fatal("same creator and nonce must derive the same address")
	}
	if a.Equals(c) {
		t.Fatal("different nonce must derive a different address")
	}
	if !VerifyAddress(a) {
		t.Fatal("derived address must carry a valid checksum")
	}
}

func TestEncodeDecodePrivateKey(t *testing.T) {
	key := MustGenPrvKey()
	der := DefaultEncodePrivateKey(key)
	version, back, err := DecodePrivateKey(der)
	if err != nil {
		t.Fatal(err)
	}
	if version != DefaultKeyPackVersion {
		t.Fatalf("version: %d", version)
	}
	if back.D.Cmp(key.D) != 0 {
		t.Fatal("D mismatch after roundtrip")
	}
}
