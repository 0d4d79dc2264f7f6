package codec_test

import (
	"bytes"
	"testing"

	"github.com/ddknet/node/foundation/blockchain/codec"
	"github.com/ddknet/node/foundation/blockchain/fault"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestWriter(t *testing.T) {
	t.Log("Given the need to write fixed layouts in little-endian order.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the layout is filled exactly.", testID)
		{
			w := codec.NewWriter(codec.Uint8Length + codec.Int32Length + codec.Uint64Length + 4 + 2)
			w.Uint8("type", 3)
			w.Int32("timestamp", 1)
			w.Uint64("amount", 0x0102)
			w.Text("slot", "ab", 4)
			w.Hex("hash", "ff00", 2)

			got, err := w.Finish()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould finish the layout: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould finish the layout.", success, testID)

			exp := []byte{3, 1, 0, 0, 0, 2, 1, 0, 0, 0, 0, 0, 0, 'a', 'b', 0, 0, 0xff, 0}
			if !bytes.Equal(got, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould write the expected bytes: got %v, exp %v", failed, testID, got, exp)
			}
			t.Logf("\t%s\tTest %d:\tShould write the expected bytes.", success, testID)
		}

		tt := []struct {
			name  string
			write func(w *codec.Writer)
			size  int
		}{
			{"overflow", func(w *codec.Writer) { w.Uint64("amount", 1) }, 4},
			{"short", func(w *codec.Writer) { w.Uint8("type", 1) }, 2},
			{"bad hex", func(w *codec.Writer) { w.Hex("hash", "zz", 1) }, 1},
			{"hex width", func(w *codec.Writer) { w.Hex("hash", "ffff", 1) }, 1},
			{"long text", func(w *codec.Writer) { w.Text("slot", "abc", 2) }, 2},
			{"bad address", func(w *codec.Writer) { w.Address("recipient", "XYZ1") }, 8},
			{"padded address", func(w *codec.Writer) { w.Address("recipient", "DDK07035278622117199393") }, 8},
		}

		for _, tst := range tt {
			testID++
			t.Logf("\tTest %d:\tWhen the layout is %s.", testID, tst.name)
			{
				w := codec.NewWriter(tst.size)
				tst.write(w)

				_, err := w.Finish()
				if !fault.IsEncoding(err) {
					t.Fatalf("\t%s\tTest %d:\tShould get an encoding error: got %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get an encoding error.", success, testID)
			}
		}
	}
}

func TestPut(t *testing.T) {
	t.Log("Given the need to append variable asset bytes.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen appending values.", testID)
		{
			b, err := codec.PutString(nil, "username", "ddk")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould append a string: %v", failed, testID, err)
			}
			b = codec.PutUint32(b, 7)
			b = codec.PutInt32(b, -1)
			b = codec.PutUint64(b, 9)
			if b, err = codec.PutAddress(b, "recipient", ""); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould append an empty address: %v", failed, testID, err)
			}
			if b, err = codec.PutHex(b, "id", "0a0b", 2); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould append hex: %v", failed, testID, err)
			}

			exp := []byte{3, 'd', 'd', 'k', 7, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x0a, 0x0b}
			if !bytes.Equal(b, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould append the expected bytes: got %v", failed, testID, b)
			}
			t.Logf("\t%s\tTest %d:\tShould append the expected bytes.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a string is too long.", testID)
		{
			_, err := codec.PutString(nil, "name", string(make([]byte, 256)))
			if !fault.IsEncoding(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get an encoding error: got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get an encoding error.", success, testID)
		}
	}
}
