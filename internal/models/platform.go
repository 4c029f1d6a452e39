package models

// Platform name constants for the six in-scope crawlers. RawContent.Platform
// is a plain string (platform-specific crawlers may in principle name
// something else), but every built-in crawler uses one of these.
const (
	PlatformDouyin      = "douyin"
	PlatformXiaohongshu = "xiaohongshu"
	PlatformWeibo       = "weibo"
	PlatformBilibili    = "bilibili"
	PlatformZhihu       = "zhihu"
	PlatformBaidu       = "baidu"
)
