package models

import "github.com/pkg/errors"

// Классы ошибок цикла. Конкретные ошибки оборачиваются через errors.Wrapf.
var (
	ErrTransport = errors.New("transport error")
	ErrExchange  = errors.New("exchange error")
	ErrParse     = errors.New("parse error")
	ErrAuth      = errors.New("auth error")
)
