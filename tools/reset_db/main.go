package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"peiban/config"

	"github.com/go-sql-driver/mysql"
)

// 清空业务表（子表在前）
var tables = []string{"logs", "checkins", "users"}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "配置文件路径")
	yes := flag.Bool("yes", false, "跳过确认")
	clearUploads := flag.Bool("uploads", false, "同时清空本地上传目录")
	flag.Parse()

	cfg := config.LoadConfigFrom(*configPath)
	if cfg.Database.Driver != "" && cfg.Database.Driver != "mysql" {
		log.Fatalf("reset_db 只支持 mysql，当前驱动: %s", cfg.Database.Driver)
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.User = cfg.Database.Username
	dsnCfg.Passwd = cfg.Database.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
	dsnCfg.DBName = cfg.Database.Database
	dsnCfg.ParseTime = true
	dsnCfg.Params = map[string]string{"charset": cfg.Database.Charset}

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("数据库连接测试失败: %v", err)
	}
	fmt.Printf("数据库连接成功: %s\n", cfg.Database.Database)

	if !*yes {
		fmt.Printf("\n警告: 将清空表 %v 的全部数据！\n", tables)
		fmt.Print("输入 YES 确认: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "YES" {
			fmt.Println("已取消")
			return
		}
	}

	_, _ = db.Exec("SET FOREIGN_KEY_CHECKS=0")
	for _, table := range tables {
		fmt.Printf("清空表 %s... ", table)
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			fmt.Printf("失败: %v\n", err)
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", table)); err != nil {
			fmt.Printf("重置自增ID失败: %v\n", err)
			continue
		}
		fmt.Println("成功")
	}
	_, _ = db.Exec("SET FOREIGN_KEY_CHECKS=1")

	if *clearUploads && (cfg.Storage.Type == "" || cfg.Storage.Type == "local") {
		for _, sub := range []string{"avatars", "logs"} {
			dir := filepath.Join(cfg.Upload.Root, sub)
			fmt.Printf("清空目录 %s... ", dir)
			if err := os.RemoveAll(dir); err != nil {
				fmt.Printf("失败: %v\n", err)
				continue
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				fmt.Printf("失败: %v\n", err)
				continue
			}
			fmt.Println("成功")
		}
	}

	fmt.Println("\n数据库重置完成，表结构保留，自增ID已重置")
}
