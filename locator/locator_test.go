package locator

import "testing"

func TestRoundTrip(t *testing.T) {
	cases := []Locator{
		{FileID: 1, Start: 0, End: 128, IsConformer: false, CID: 2244},
		{FileID: 7, Start: 128, End: 256, IsConformer: true, CID: 1},
		{FileID: 42, Start: 0, End: 1, IsConformer: true, CID: absentCID},
	}
	for _, want := range cases {
		buf := MustEncode(want)
		got, err := Decode(buf[:])
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestMustEncodePanicsOnInvalidInput(t *testing.T) {
	cases := []Locator{
		{FileID: 0, Start: 0, End: 1},        // file_id must be >= 1
		{FileID: 1, Start: 10, End: 5},        // start must be <= end
		{FileID: 1, Start: 0, End: 1<<63 + 1}, // end exceeds 2^63
	}
	for _, l := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected MustEncode to panic for %+v", l)
				}
			}()
			MustEncode(l)
		}()
	}
}

func TestDecodeWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, 31))
	if err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestDecodeBadCIDSentinel(t *testing.T) {
	buf := Encode(Locator{FileID: 1, Start: 0, End: 1, CID: 5})
	// Corrupt the cid field to an invalid negative value (-2).
	buf[22] = 0xfe
	buf[23] = 0xff
	buf[24] = 0xff
	buf[25] = 0xff
	buf[26] = 0xff
	buf[27] = 0xff
	buf[28] = 0xff
	buf[29] = 0xff
	_, err := Decode(buf[:])
	if err == nil {
		t.Fatal("expected error for invalid cid sentinel")
	}
}

func TestHasCID(t *testing.T) {
	if (Locator{CID: absentCID}).HasCID() {
		t.Fatal("expected HasCID false for absent sentinel")
	}
	if !(Locator{CID: 9}).HasCID() {
		t.Fatal("expected HasCID true for present cid")
	}
}
