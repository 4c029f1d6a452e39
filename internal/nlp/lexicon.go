package nlp

// customLexicon is the fixed list of domain terms (tickers, named
// entities, policy jargon) registered with the segmenter before first
// use, so it does not split them mid-word.
var customLexicon = []string{
	"人工智能", "大模型", "新能源车", "电动汽车", "国务院", "中央银行",
	"美联储", "中国人民银行", "证监会", "银保监会", "双碳目标", "共同富裕",
	"一带一路", "粤港澳大湾区", "长三角一体化", "京津冀协同发展",
	"供给侧改革", "房地产税", "集体土地", "宅基地", "个人所得税",
	"社保基金", "养老金", "北交所", "科创板", "创业板", "沪深300",
	"人民币汇率", "跨境电商", "自由贸易区", "芯片制裁", "半导体产业链",
	"碳中和", "碳达峰", "绿色金融", "数字人民币", "元宇宙", "生成式AI",
	"ChatGPT", "大语言模型", "新质生产力",
}

// RegisterLexicon adds the custom lexicon to the segmenter's mutable
// user dictionary, one AddWord call per term.
func (p *Pipeline) RegisterLexicon() {
	for _, term := range customLexicon {
		p.jieba.AddWord(term)
	}
}
