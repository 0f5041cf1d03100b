package user

import (
	"fmt"
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/sigimobiliare/sig/core"
)

var (
	emailTag  = "useremail"
	emailText = "Please enter a valid email."

	pwdRequiredTag  = "pwdrequired"
	pwdRequiredText = "Please enter your password."

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("Password must be at least %d characters.", pwdMinLen)

	pwdMatchTag  = "pwdmatch"
	pwdMatchText = "Passwords do not match."

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "Password is too similar to your email."
)

// InitValidators registers the user validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(emailTag, emailValidation)
	core.RegisterCustomTranslation(validate, translator, emailTag, emailText)

	_ = validate.RegisterValidation(pwdRequiredTag, pwdRequiredValidation)
	core.RegisterCustomTranslation(validate, translator, pwdRequiredTag, pwdRequiredText)

	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)

	validate.RegisterStructValidation(userStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, pwdMatchTag, pwdMatchText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

// Custom Validators

func emailValidation(fl validator.FieldLevel) bool {
	return core.IsEmailLike(fl.Field().String())
}

func pwdRequiredValidation(fl validator.FieldLevel) bool {
	return fl.Field().String() != ""
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= pwdMinLen
}

// userStructValidation checks the confirmation then the similarity of the password to the email.
func userStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	if nu.ConfirmPassword != nu.Password {
		sl.ReportError(nu.ConfirmPassword, "confirmPassword", "ConfirmPassword", pwdMatchTag, "")
		return
	}
	if tooSimilar(nu.Password, nu.Email) {
		sl.ReportError(nu.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

// tooSimilar compares the password with the email and with its local part.
func tooSimilar(pwd, email string) bool {
	if pwd == "" || email == "" {
		return false
	}
	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return getRatio(pwd, email) >= pwdMaxSim || getRatio(pwd, local) >= pwdMaxSim
}
