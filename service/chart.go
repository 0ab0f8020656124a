package service

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderTrendChart 将月度支出趋势渲染为 PNG 柱状图
// 点按时间顺序排列（最早的在前），没有数据时返回 nil
func RenderTrendChart(points []TrendPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{
			Label: p.Month,
			Value: p.Expense,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed.WithAlpha(100),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Monthly Expenses",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("渲染趋势图失败: %w", err)
	}

	return buffer.Bytes(), nil
}
