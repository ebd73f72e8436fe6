package insights

import "errors"

// 文案生成错误；HTTP 层统一映射为本地化的 generationFailed
var (
	ErrGenerationFailed = errors.New("insight generation failed")
	ErrNarratorDisabled = errors.New("narrator is not configured")
	ErrRateLimited      = errors.New("insight rate limit exceeded")
	ErrNoData           = errors.New("no records to analyze")
)
