package settings

import "github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"

type UpsertRequest struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Key) {
		errs = append(errs, validator.ValidationError{
			Field:   "key",
			Message: ErrKeyRequired.Error(),
		})
	}

	if r.Value == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "value",
			Message: ErrValueRequired.Error(),
		})
	} else if IsNumeric(r.Key) && !validator.IsInteger(*r.Value) {
		errs = append(errs, validator.ValidationError{
			Field:   "value",
			Message: ErrValueNotNumeric.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
