package statistic

import "fmt"

func redisKeyPointBoard(period PeriodType) string {
	return fmt.Sprintf("gamification:points:%s", period.Period())
}

func redisKeySnapshotBoard(boardType BoardType) string {
	return fmt.Sprintf("gamification:board:%s:total", boardType)
}
