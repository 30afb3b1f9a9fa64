package settings

import "errors"

var ErrSettingsNotFound = errors.New("commissions settings not found")
