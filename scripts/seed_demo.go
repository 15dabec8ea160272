// 导入演示数据（教师、学生、课程与模块）
//
// 适用于本地开发或首次部署后的体验环境，重复执行时已存在的记录会被跳过。
//
// 用法: go run scripts/seed_demo.go [-config configs] [-file scripts/seed_demo.yaml]

package main

import (
	"context"
	"flag"
	"lms_backend/internal/config"
	"lms_backend/internal/seed"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"log"
	"os"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	file := flag.String("file", "scripts/seed_demo.yaml", "演示数据文件")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	fh, err := os.Open(*file)
	if err != nil {
		log.Fatalf("无法读取演示数据: %v", err)
	}
	defer fh.Close()

	data, err := seed.Parse(fh)
	if err != nil {
		log.Fatalf("演示数据格式错误: %v", err)
	}

	res, err := seed.Apply(context.Background(), db, data, cfg.Enrollment.DefaultMaxStudents)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！新增用户 %d，课程 %d，模块 %d", res.UsersCreated, res.CoursesCreated, res.ModulesCreated)
}
