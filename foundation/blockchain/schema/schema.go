// Package schema contains the support for validating the shape of blocks,
// transactions and assets before they reach the ledger.
package schema

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/signature"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var usernameRegEx = regexp.MustCompile(`^[a-z0-9!@$&_.]+$`)

// addressLikeRegEx matches usernames that read as an address, padded or not.
var addressLikeRegEx = regexp.MustCompile(`^ddk[0-9]{1,20}$`)

// custom holds the tags added on top of the validator's builtin tags.
var custom = []struct {
	tag     string
	message string
	fn      validator.Func
}{
	{"hex", "{0} must be a lowercase hex string", isHex},
	{"publickey", "{0} must be a 64 character hex public key", isPublicKey},
	{"signature", "{0} must be a 128 character hex signature", isSignature},
	{"address", "{0} must be a DDK address", isAddress},
	{"username", "{0} must be lowercase letters, digits or !@$&_. and not an address", isUsername},
}

// Validator checks values against the validate tags of their struct fields
// and reports failures as English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New constructs a validator with the custom tags registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	translator, _ := ut.New(en.New(), en.New()).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	// Report the json name of a field instead of the Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, c := range custom {
		if err := validate.RegisterValidation(c.tag, c.fn); err != nil {
			return nil, err
		}

		tag, message := c.tag, c.message
		register := func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}
		translate := func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}
		if err := validate.RegisterTranslation(tag, translator, register, translate); err != nil {
			return nil, err
		}
	}

	v := Validator{
		validate:   validate,
		translator: translator,
	}

	return &v, nil
}

// Check validates the provided value. Every failing field is reported in
// the returned ValidationError.
func (v *Validator) Check(val any) error {
	if err := v.validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fault.Validation(err.Error())
		}

		msgs := make([]string, len(verrors))
		for i, verror := range verrors {
			msgs[i] = verror.Translate(v.translator)
		}

		return fault.Validation(msgs...)
	}

	return nil
}

// Var validates a single value against the specified tag.
func (v *Validator) Var(field string, val any, tag string) error {
	if err := v.validate.Var(val, tag); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fault.Validation(err.Error())
		}

		msgs := make([]string, len(verrors))
		for i, verror := range verrors {
			msgs[i] = field + verror.Translate(v.translator)
		}

		return fault.Validation(msgs...)
	}

	return nil
}

// =============================================================================

func isHex(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s)%2 != 0 {
		return false
	}

	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}

func isPublicKey(fl validator.FieldLevel) bool {
	return signature.IsPublicKey(fl.Field().String())
}

func isSignature(fl validator.FieldLevel) bool {
	return signature.IsSignature(fl.Field().String())
}

func isAddress(fl validator.FieldLevel) bool {
	return signature.IsAddress(fl.Field().String())
}

func isUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return usernameRegEx.MatchString(s) && !addressLikeRegEx.MatchString(s)
}
