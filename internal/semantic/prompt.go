package semantic

import "strings"

const titlePlaceholder = "{title}"

// DefaultPromptTemplate asks the model for a strict JSON verdict. The JSON-only
// instruction is a convention the model may ignore; Parse copes with that.
const DefaultPromptTemplate = `你是小额贷款广告专家，需要评估新闻是否适合用于抖音口播号的贷款广告脚本。

【评分标准】三个维度，每个0-10分：

1. 受众广度（10分）
   - 10分：90%以上的人相关（如：物价上涨、房租上涨、工资拖欠、裁员失业）
   - 8分：70-90%的人相关（如：结婚彩礼、过年开销、搬家费用）
   - 6分：50-70%的人相关（如：创业、副业、摆摊）
   - 4分：30-50%的人相关（行业特定话题）
   - 2分：10-30%的人相关（小众群体话题）
   - 0分：只有极少数人关心（如：富豪、明星、奢侈品）

2. 利益直接性（10分）
   - 10分：直接涉及钱的收支（如：工资、存款利率、房租、物价、补贴）
   - 8分：明显的资金需求场景（如：买房、结婚、创业、搬家、医疗）
   - 6分：可能产生资金需求（如：副业机会、投资理财、消费升级）
   - 4分：间接影响个人财务（如：政策调整、经济形势）
   - 2分：需要思考才能关联到钱（如：行业数据、宏观指标）
   - 0分：和钱无关（如：娱乐八卦、体育赛事）

3. 理解简单度（10分）
   - 10分：一听就懂，无需解释（如：物价涨了、房租贵了、工资少了）
   - 8分：稍微想想就能懂（如：消费贷贴息、补贴发放）
   - 6分：需要简单解释（如：利率调整）
   - 4分：需要详细解释（如：金融监管政策）
   - 2分：有专业术语（如：LPR、MLF）
   - 0分：需要专业知识（如：复杂金融概念）

【注意事项】
- 必须严格按照评分标准打分
- 受众广度：重点看覆盖人群比例
- 利益直接性：重点看是否直接涉及"钱"（不是缺钱，而是和钱相关）
- 理解简单度：重点看是否需要解释背景知识

【新闻标题】
{title}

【输出格式】
请严格按照以下JSON格式输出，不要有任何其他文字：
{
    "audience_score": <0-10的整数>,
    "interest_score": <0-10的整数>,
    "simplicity_score": <0-10的整数>,
    "total_score": <0-30的整数>,
    "reason": "<100字以内的评分理由，说明为什么这样打分>",
    "ad_direction": "<30字以内的广告引子建议>",
    "target_audience": "<目标受众描述，20字以内>",
    "emotion": "<positive或negative或neutral>"
}`

// BuildPrompt interpolates the headline into the template.
func BuildPrompt(template, headline string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPromptTemplate
	}
	return strings.ReplaceAll(template, titlePlaceholder, headline)
}
