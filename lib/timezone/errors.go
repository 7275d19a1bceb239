package timezone

import "errors"

var ErrUnknownCountry = errors.New("no timezone known for country")
