package nlp

// Entity classes recognized by the closed-dictionary intersection test.
type EntityClass string

const (
	EntityPerson EntityClass = "person"
	EntityLocation EntityClass = "location"
	EntityOrganization EntityClass = "organization"
	EntityBrand EntityClass = "brand"
)

// Entity is a recognized (class, text) pair.
type Entity struct {
	Class EntityClass
	Text  string
}

var entityDicts = map[EntityClass]map[string]bool{
	EntityPerson: toSet([]string{
		"马斯克", "马化腾", "马云", "任正非", "雷军", "张一鸣", "刘强东",
		"拜登", "特朗普", "普京", "习近平", "李强",
	}),
	EntityLocation: toSet([]string{
		"北京", "上海", "深圳", "广州", "杭州", "成都", "重庆", "武汉",
		"香港", "台湾", "纽约", "华盛顿", "东京", "首尔", "伦敦", "巴黎",
	}),
	EntityOrganization: toSet([]string{
		"联合国", "世界卫生组织", "国家统计局", "中国证监会", "美联储",
		"欧盟", "北约", "世贸组织", "国务院", "工信部", "央行",
	}),
	EntityBrand: toSet([]string{
		"华为", "小米", "腾讯", "阿里巴巴", "字节跳动", "比亚迪", "特斯拉",
		"苹果", "三星", "谷歌", "微软", "亚马逊", "英伟达", "台积电",
	}),
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// ExtractEntities tokenizes text and intersects the resulting tokens
// against the four closed dictionaries, returning order-preserving,
// deduplicated matches.
func (p *Pipeline) ExtractEntities(text string) []Entity {
	tokens := p.jieba.Cut(text, true)

	var entities []Entity
	seen := make(map[string]bool)

	classOrder := []EntityClass{EntityPerson, EntityLocation, EntityOrganization, EntityBrand}
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		for _, class := range classOrder {
			if entityDicts[class][tok] {
				entities = append(entities, Entity{Class: class, Text: tok})
				seen[tok] = true
				break
			}
		}
	}
	return entities
}
