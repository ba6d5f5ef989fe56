// Package cerr attaches structured log fields to errors as they are wrapped,
// so the fields can be logged once at the top of the call stack.
package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F = log.Fields

type contextError struct {
	cause  error
	fields F
}

func (c *contextError) Error() string {
	return c.cause.Error()
}

func (c *contextError) Unwrap() error {
	return c.cause
}

type ErrorContext struct {
	fields F
	cause  error
}

func Field(key string, value any) ErrorContext {
	return ErrorContext{}.Field(key, value)
}

func Fields(fields F) ErrorContext {
	return ErrorContext{}.Fields(fields)
}

func Wrap(err error) ErrorContext {
	return ErrorContext{}.Wrap(err)
}

func Error(msg string) error {
	return ErrorContext{}.error(msg)
}

func (e ErrorContext) Field(key string, value any) ErrorContext {
	return e.Fields(F{key: value})
}

func (e ErrorContext) Fields(fields F) ErrorContext {
	merged := make(F, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return ErrorContext{
		fields: merged,
		cause:  e.cause,
	}
}

func (e ErrorContext) Wrap(err error) ErrorContext {
	return ErrorContext{
		fields: e.fields,
		cause:  err,
	}
}

func (e ErrorContext) Error(msg string) error {
	return e.error(msg)
}

func (e ErrorContext) error(msg string) error {
	var err error
	if e.cause == nil {
		err = errors.NewWithDepth(2, msg)
	} else {
		err = errors.WrapWithDepth(2, e.cause, msg)
	}

	if len(e.fields) == 0 {
		return err
	}

	return &contextError{
		cause:  err,
		fields: e.fields,
	}
}

// CollectFields gathers the fields of every context in the chain. Outer
// contexts win on key collisions.
func CollectFields(err error) F {
	fields := F{}
	for ; err != nil; err = errors.UnwrapOnce(err) {
		contextErr, ok := err.(*contextError)
		if !ok {
			continue
		}

		for k, v := range contextErr.fields {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	}

	return fields
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(CollectFields(err)).Error(err.Error())
}
