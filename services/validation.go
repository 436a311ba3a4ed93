package services

import (
	"cardspend/models"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var digitsOnly = regexp.MustCompile(`^\d{16}$`)

// newValidator создает валидатор с кастомными правилами предметной области
func newValidator() *validator.Validate {
	validate := validator.New()

	// Номер карты: ровно 16 цифр после удаления пробелов
	validate.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		number := strings.ReplaceAll(fl.Field().String(), " ", "")
		return digitsOnly.MatchString(number)
	})

	// Платежная система из закрытого списка
	validate.RegisterValidation("cardtype", func(fl validator.FieldLevel) bool {
		return models.IsValidCardType(fl.Field().String())
	})

	// Категория расхода из закрытого списка из 13 значений
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})

	return validate
}

// validationError переводит ошибки валидации в единое сообщение
func validationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "min":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть не меньше "+e.Param())
		case "max":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть не больше "+e.Param())
		case "gt":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше "+e.Param())
		case "gte":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше или равно "+e.Param())
		case "lte":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть меньше или равно "+e.Param())
		case "oneof":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
		case "cardnumber":
			errorMessages = append(errorMessages, "номер карты должен состоять из 16 цифр")
		case "cardtype":
			errorMessages = append(errorMessages, "недопустимая платежная система")
		case "category":
			errorMessages = append(errorMessages, "недопустимая категория расхода")
		case "hexcolor":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть hex-цветом")
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
		}
	}
	return &ValidationError{Message: strings.Join(errorMessages, "; ")}
}

// ValidationError представляет ошибку валидации входных данных
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку валидации с заданным сообщением
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
