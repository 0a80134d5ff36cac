package sqlpool

import (
	"errors"
)

var ErrNilPoolSupplied = errors.New("nil pool supplied")
var ErrNegativeLoginTimeout = errors.New("negative login timeout supplied")
var ErrNilLogWriterSupplied = errors.New("nil log writer supplied")
var ErrEmptyCatalogNameSupplied = errors.New("empty catalog name supplied")
var ErrAcquiringConnectionFailed = errors.New("acquiring a connection failed")
