package validators

import (
	"github.com/go-playground/validator/v10"

	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
)

// Register installs the custom tags used by the request structs.
func Register(validate *validator.Validate, norm *datetime.Normalizer) {
	_ = validate.RegisterValidation("meetingtype", MeetingType)
	_ = validate.RegisterValidation("civildate", CivilDate(norm))
	_ = validate.RegisterValidation("civiltime", CivilTime(norm))
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

func MeetingType(fl validator.FieldLevel) bool {
	_, ok := entity.ParseMeetingType(fl.Field().String())
	return ok
}

func CivilDate(norm *datetime.Normalizer) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := norm.ParseCivilDate(fl.Field().String())
		return err == nil
	}
}

func CivilTime(norm *datetime.Normalizer) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := norm.ParseCivilTime(fl.Field().String())
		return err == nil
	}
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch r {
		case ' ', '\t', '\n', '\r':
			return false
		}
	}
	return true
}
