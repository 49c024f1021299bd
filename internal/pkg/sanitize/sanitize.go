package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// UGC 清洗用户提交的正文，防止 XSS
func UGC(input string) string {
	return policy.Sanitize(input)
}
