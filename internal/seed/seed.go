// Package seed holds the curated, domain-grouped keyword bank used to
// bootstrap each cycle's search/discovery queries, and the selection
// function that draws a randomized subset from it.
package seed

import "math/rand"

// bank groups seed keywords by domain: finance, politics, tech, society.
var bank = map[string][]string{
	"finance": {
		"A股", "港股", "美股", "黄金价格", "人民币汇率", "央行降息", "楼市新政",
		"新能源汽车", "芯片股", "消费复苏", "房贷利率", "基金赎回", "IPO上市",
		"数字人民币", "碳中和",
	},
	"politics": {
		"国务院会议", "人大常委会", "外交部发言人", "中美关系", "反腐倡廉",
		"民生政策", "乡村振兴", "共同富裕", "机构改革", "一带一路",
	},
	"tech": {
		"人工智能", "大模型", "芯片突破", "量子计算", "自动驾驶", "机器人",
		"元宇宙", "5G基站", "云计算", "网络安全", "国产操作系统", "新能源电池",
	},
	"society": {
		"高考", "就业形势", "养老金", "教育改革", "医保新规", "食品安全",
		"极端天气", "交通事故", "明星绯闻", "社会新闻",
	},
}

// domainOrder fixes iteration order so Select's per-domain draw is
// deterministic modulo its random shuffle.
var domainOrder = []string{"finance", "politics", "tech", "society"}

// Select groups the bank by domain, draws max(2, count/domains) per
// domain uniformly without replacement, shuffles, and truncates to
// count. Randomization is per call, matching the spec's per-cycle
// reseed.
func Select(count int) []string {
	domains := len(domainOrder)
	perDomain := count / domains
	if perDomain < 2 {
		perDomain = 2
	}

	var picked []string
	for _, domain := range domainOrder {
		words := bank[domain]
		picked = append(picked, drawWithoutReplacement(words, perDomain)...)
	}

	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	if len(picked) > count {
		picked = picked[:count]
	}
	return picked
}

func drawWithoutReplacement(words []string, n int) []string {
	if n >= len(words) {
		out := make([]string, len(words))
		copy(out, words)
		return out
	}

	idx := rand.Perm(len(words))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = words[j]
	}
	return out
}
