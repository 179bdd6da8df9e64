package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

// ValidationInterceptor checks request messages against their `validate`
// struct tags before they reach the handler.
func ValidationInterceptor(v *validator.Validate) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if err := v.Struct(req.Any()); err != nil {
				return nil, connect.NewError(connect.CodeInvalidArgument, describe(err))
			}
			return next(ctx, req)
		}
	}
}

// describe turns validator output into a short message naming each field.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
