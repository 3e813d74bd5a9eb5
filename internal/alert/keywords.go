package alert

// Keyword tables for the remark-scanning detectors. Matching is
// case-insensitive substring search against the lower-cased remark; the
// Chinese terms match CRM remarks written by the sales team, the English
// terms match pasted buyer messages.

// highValueKeywords signal strong commercial intent.
var highValueKeywords = []string{
	"自有设计图", "定制品牌", "首单100件", "首单80件", "首单50件",
	"官网", "线上店铺", "oem", "品牌定制", "大单", "长期合作",
	"wholesale", "bulk order", "brand", "custom", "private label",
}

// lowQualityKeywords signal spam, fraud, or personal-buyer inquiries.
var lowQualityKeywords = []string{
	"钓鱼", "新注册用户未读", "促销商", "一句话询盘", "不对口",
	"个人买家", "垃圾询盘", "无效询盘", "诈骗", "骗子",
	"phishing", "spam", "personal buyer",
}

// Signals for the unread-message wake-up check: an unread marker must
// co-occur with a sample or interest marker.
var (
	unreadSignals   = []string{"未读", "unread"}
	sampleSignals   = []string{"样品", "sample"}
	interestSignals = []string{"兴趣", "interest"}
)

// lowMOQSignals mark small-batch / low minimum-order-quantity demand.
var lowMOQSignals = []string{"moq", "起订量", "小批量"}
