package vision

import "errors"

// ErrPoorQuality фото не прошло проверку качества
var ErrPoorQuality = errors.New("poor image quality")
