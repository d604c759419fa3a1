package common

const (
	RedisStreamStockAnalyzer = "stock.analyzer"

	RedisStreamGroup    = "analyzer-group"
	RedisStreamConsumer = "analyzer-consumer"

	ReportFormatText     = "text"
	ReportFormatMarkdown = "markdown"
)
