package rule

import "errors"

var (
	ErrRuleNotFound = errors.New("commission rule not found")
	ErrRuleInUse    = errors.New("commission rule has transactions and cannot be deleted")
)
