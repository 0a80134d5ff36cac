package decorator

import (
	"errors"
)

var ErrNilDataSource = errors.New("nil real dataSource supplied")
var ErrEmptyDecoratorName = errors.New("empty decorator name supplied")
var ErrNilWrapFunc = errors.New("nil wrap function supplied")
var ErrDuplicateDecoratorName = errors.New("duplicate decorator name in catalog")
var ErrDecoratingDataSourceFailed = errors.New("decorating the dataSource failed")
var ErrUnsupportedCapability = errors.New("no layer in the chain satisfies the requested capability")
var ErrCredentialsNotSupported = errors.New("per-connection credentials are not supported by this pool")
