// Package model はドメインモデルを定義する。
package model

import "time"

// User は会員ユーザーを表す。
// TotalOrders / TotalSpentCents は外部の注文システムが加算する実績値で、
// 本システムは参照のみ行う。金額は浮動小数点誤差を避けるためセント単位の整数で保持する。
type User struct {
	ID              string
	Name            string
	Email           string
	TotalOrders     int
	TotalSpentCents int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
