package heat

import "strings"

// Category is the rule-based domain bucket a trend keyword is
// classified into.
type Category string

const (
	CategoryFinance       Category = "财经"
	CategoryPolitics      Category = "政治"
	CategoryTech          Category = "科技"
	CategoryInternational Category = "国际"
	CategoryCurrentAffair Category = "时事"
)

// categoryVocab lists the four domain vocabularies in fixed priority
// order: finance, politics, tech, international. Anything matching none
// of them defaults to CategoryCurrentAffair.
var categoryVocab = []struct {
	category Category
	terms    []string
}{
	{CategoryFinance, []string{
		"股票", "股市", "基金", "证券", "央行", "利率", "通胀", "A股", "美股", "港股",
		"汇率", "债券", "期货", "财报", "IPO", "上市", "融资", "市值", "牛市", "熊市",
		"经济", "GDP", "CPI", "房价", "楼市", "理财", "投资", "银行", "外汇", "黄金",
	}},
	{CategoryPolitics, []string{
		"政府", "政策", "国务院", "人大", "政协", "部委", "官员", "反腐", "选举", "外交部",
		"总理", "主席", "人民代表", "法规", "条例", "改革", "治理", "行政", "立法", "执法",
	}},
	{CategoryTech, []string{
		"人工智能", "AI", "芯片", "半导体", "算法", "大模型", "机器人", "新能源", "电动车",
		"互联网", "App", "软件", "操作系统", "云计算", "大数据", "区块链", "元宇宙", "5G",
		"科技", "创新", "专利", "研发", "无人机", "量子", "卫星", "航天",
	}},
	{CategoryInternational, []string{
		"美国", "欧盟", "俄罗斯", "日本", "韩国", "联合国", "北约", "国际", "外国", "全球",
		"世界", "跨国", "英国", "法国", "德国", "印度", "中东", "制裁", "峰会", "大使",
	}},
}

// Classify returns the category of keyword by checking each domain
// vocabulary in priority order, defaulting to CategoryCurrentAffair.
func Classify(keyword string) Category {
	for _, group := range categoryVocab {
		for _, term := range group.terms {
			if strings.Contains(keyword, term) {
				return group.category
			}
		}
	}
	return CategoryCurrentAffair
}
