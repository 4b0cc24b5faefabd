package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 排班核心指标
// 仅统计计数类指标；请求级指标由访问日志承担
var (
	// GenerateRuns 自动排班执行次数
	GenerateRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "generate_runs_total",
		Help:      "自动排班执行总次数",
	})

	// ShiftsInserted 自动排班写入的班次数
	ShiftsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "shifts_inserted_total",
		Help:      "自动排班写入班次总数",
	})

	// UnfilledSlots 自动排班后仍低于最低覆盖的槽位数
	UnfilledSlots = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "unfilled_slots_total",
		Help:      "低于最低覆盖人数的槽位总数",
	})

	// ValidationViolations 校验器发现的违规数（按检查类型区分）
	ValidationViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster",
		Name:      "validation_violations_total",
		Help:      "发布前校验发现的违规总数",
	}, []string{"check"})
)

// Handler 返回 /metrics 的 Gin 处理函数
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
