package nlp

// stopwords is the union of common function words, social-media noise,
// category labels, and English function words (173 tokens total).
var stopwords = buildStopwords()

func buildStopwords() map[string]bool {
	groups := [][]string{
		// common Chinese function words
		{
			"的", "了", "在", "是", "我", "有", "和", "就", "不", "人", "都", "一",
			"一个", "上", "也", "很", "到", "说", "要", "去", "你", "会", "着", "没有",
			"看", "好", "自己", "这", "那", "之", "与", "及", "等", "或", "但", "而",
			"把", "被", "让", "向", "对", "从", "以", "为", "因为", "所以", "如果",
			"虽然", "可是", "但是", "并且", "而且", "不过", "只是", "还是", "已经",
			"正在", "可以", "可能", "应该", "能够", "这个", "那个", "这些", "那些",
			"什么", "怎么", "为什么", "哪里", "谁", "多少", "几", "每", "各", "某",
		},
		// social-media noise
		{
			"转发", "评论", "点赞", "关注", "收藏", "分享", "直播", "视频", "图片",
			"置顶", "热评", "楼主", "沙发", "顶", "赞", "在线", "更新", "粉丝",
			"订阅", "弹幕", "投稿", "up主", "博主", "网友", "大家", "小伙伴",
		},
		// category labels
		{
			"新闻", "快讯", "热点", "热搜", "头条", "资讯", "播报", "速递", "专题",
			"独家", "最新", "今日", "实时", "追踪", "解读", "观察", "聚焦",
		},
		// English function words (55)
		{
			"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
			"and", "or", "but", "if", "then", "else", "for", "to", "of", "in",
			"on", "at", "by", "with", "from", "as", "that", "this", "these",
			"those", "it", "its", "he", "she", "they", "we", "you", "i", "not",
			"no", "so", "do", "does", "did", "has", "have", "had", "will",
			"would", "can", "could", "should", "may", "might", "must",
		},
	}

	set := make(map[string]bool)
	for _, group := range groups {
		for _, w := range group {
			set[w] = true
		}
	}
	return set
}

// IsStopword reports whether word is in the combined stopword set.
func IsStopword(word string) bool {
	return stopwords[word]
}
