package schema_test

import (
	"strings"
	"testing"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/schema"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type sample struct {
	PublicKey string `json:"publicKey" validate:"required,publickey"`
	Recipient string `json:"recipientId" validate:"omitempty,address"`
	Username  string `json:"username" validate:"omitempty,username,max=20"`
	Payload   string `json:"payloadHash" validate:"hex"`
}

func TestCheck(t *testing.T) {
	type table struct {
		name  string
		val   sample
		valid bool
		field string
	}

	pk := strings.Repeat("ab", 32)

	tt := []table{
		{name: "valid", val: sample{PublicKey: pk, Recipient: "DDK123", Username: "delegate_1", Payload: "00ff"}, valid: true},
		{name: "missing-key", val: sample{}, field: "publicKey"},
		{name: "upper-key", val: sample{PublicKey: strings.ToUpper(pk)}, field: "publicKey"},
		{name: "bad-address", val: sample{PublicKey: pk, Recipient: "ABC123"}, field: "recipientId"},
		{name: "padded-address", val: sample{PublicKey: pk, Recipient: "DDK0123"}, field: "recipientId"},
		{name: "address-username", val: sample{PublicKey: pk, Username: "ddk123"}, field: "username"},
		{name: "padded-address-username", val: sample{PublicKey: pk, Username: "ddk0123"}, field: "username"},
		{name: "odd-hex", val: sample{PublicKey: pk, Payload: "abc"}, field: "payloadHash"},
	}

	v, err := schema.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a validator: %v", failed, err)
	}

	t.Log("Given the need to validate values against their schema.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					err := v.Check(tst.val)

					if tst.valid {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould pass validation: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
						return
					}

					if !fault.IsValidation(err) {
						t.Fatalf("\t%s\tTest %d:\tShould get a validation error, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get a validation error.", success, testID)

					if !strings.Contains(err.Error(), tst.field) {
						t.Fatalf("\t%s\tTest %d:\tShould name the field %s: %v", failed, testID, tst.field, err)
					}
					t.Logf("\t%s\tTest %d:\tShould name the field %s.", success, testID, tst.field)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
