package lexical

// DefaultRuleSet returns the built-in rule table tuned for consumer micro-loan hooks.
// The per-band scores are policy constants and must not be re-derived.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Blacklist: Terms(
			"富豪", "千万", "亿万", "豪宅", "豪车", "奢侈品",
			"明星", "网红", "直播", "娱乐", "八卦",
			"学费", "培训", "考证", "教育", "课程",
			"医院", "医保", "看病", "疾病", "癌症", "手术",
			"股票", "基金", "炒股", "投资理财", "虚拟货币", "比特币",
			"彩票", "赌博", "传销", "诈骗", "洗钱", "高利贷",
		),
		Audience: Dimension{
			Name:    "audience",
			Default: 4,
			Tiers: []Tier{
				{
					Name: "high",
					Rules: Terms(
						"工资", "薪资", "裁员", "失业", "待业", "找工作", "求职",
						"房租", "租金", "押金", "物价", "菜价", "猪肉", "鸡蛋",
						"米面油", "生活成本", "油价", "水电费", "燃气费",
						"打工", "上班族", "年轻人", "90后", "00后",
					),
					Bands: []Band{{MinHits: 1, Score: 10}},
				},
				{
					Name: "medium",
					Rules: Terms(
						"结婚", "彩礼", "婚礼", "份子钱", "红包",
						"过年", "春节", "年货", "人情", "礼金",
						"租房", "搬家", "换房", "车贷", "停车费", "保养",
					),
					Bands: []Band{{MinHits: 2, Score: 8}, {MinHits: 1, Score: 7}},
				},
				{
					Name: "low",
					Rules: Terms(
						"创业", "副业", "摆摊", "小生意", "个体户", "小店",
						"兼职", "外卖", "跑腿", "开店",
					),
					Bands: []Band{{MinHits: 2, Score: 6}, {MinHits: 1, Score: 5}},
				},
			},
		},
		Interest: Dimension{
			Name:    "interest",
			Default: 3,
			Tiers: []Tier{
				{
					Name: "direct",
					Rules: Terms(
						"拖欠", "延迟发放", "缩水", "下降", "欠薪",
						"裁员", "失业", "上涨", "涨价", "贵", "暴涨",
					),
					Bands: []Band{{MinHits: 1, Score: 10}},
				},
				{
					Name: "indirect",
					Rules: Terms(
						"费用", "成本", "开销", "支出", "花费", "压力",
						"负担", "攀比", "焦虑", "不易", "艰难",
					),
					Bands: []Band{{MinHits: 2, Score: 7}, {MinHits: 1, Score: 6}},
				},
				{
					Name: "policy",
					Rules: Terms(
						"补贴", "贴息", "优惠", "减免", "发放", "申请",
						"消费券", "购物券", "惠民", "领取",
					),
					Bands: []Band{{MinHits: 1, Score: 5}},
				},
			},
		},
		// Jargon lowers the score: the more professional terms, the harder the hook.
		Comprehension: Dimension{
			Name:    "comprehension",
			Default: 10,
			Tiers: []Tier{
				{
					Name: "jargon",
					Rules: Terms(
						"LPR", "MLF", "GDP", "CPI", "PMI", "PPI",
						"利率", "汇率", "货币政策", "金融监管", "宏观经济",
						"央行", "货币", "政策调整", "经济指标",
					),
					Bands: []Band{{MinHits: 3, Score: 2}, {MinHits: 2, Score: 4}, {MinHits: 1, Score: 6}},
				},
			},
		},
	}
}
