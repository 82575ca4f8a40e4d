package main

import (
	"context"
	"log"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
	"Park_Helper/internal/repository/redis"
	"Park_Helper/internal/router"
	"Park_Helper/internal/service"
)

func main() {
	dsn := "user:password@tcp(127.0.0.1:3306)/park_helper?charset=utf8mb4&parseTime=True"
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init("127.0.0.1:6379", "", 0); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.Member{},
		&model.HelpTransaction{},
		&model.HelpUnit{},
		&model.Favorite{},
		&model.HelpOutbox{},
	)

	// 帮忙事件投递到kafka，连不上就退回日志sender
	sender := service.LogSender
	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: []string{"127.0.0.1:9092"},
		Topic:   "help-events",
	})
	if err != nil {
		log.Printf("kafka init err: %v, fallback to log sender", err)
	} else {
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	relayer := service.NewOutboxRelayer(sender)
	go relayer.Run(context.Background())

	// Gin
	r := router.InitRouter()
	if err := r.Run(":8080"); err != nil {
		return
	}
}
