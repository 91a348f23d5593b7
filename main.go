package main

import (
	"encoding/json"
	"flag"
	"os"

	"perch/buffer"
	"perch/common"
	"perch/conf"
	"perch/disk"
	"perch/disk/wal"
	"perch/logger"
)

type demostruct struct {
	Num int
	Val string
}

func main() {
	configPath := flag.String("config", "", "path to an ini config file")
	flag.Parse()

	cfg := conf.Default()
	if *configPath != "" {
		c, err := conf.Load(*configPath)
		if err != nil {
			logger.Errorf("config cannot be loaded: %v", err)
			os.Exit(1)
		}
		cfg = c
	}

	if err := logger.Init(cfg.LogLevel, nil); err != nil {
		logger.Errorf("bad log level %q: %v", cfg.LogLevel, err)
		os.Exit(1)
	}

	dm, created, err := disk.NewDiskManager(cfg.DBFile)
	common.PanicIfErr(err)
	defer dm.Close()
	logger.Infof("opened %s, created=%v", cfg.DBFile, created)

	lm := wal.NewLogManager(dm.GetLogWriter())
	pool := buffer.NewBufferPoolWithDM(cfg.PoolSize, dm, lm)

	pageIDs := make([]disk.PageID, 0)
	for i := 0; i < 50; i++ {
		x := demostruct{Num: i, Val: "selam"}
		b, _ := json.Marshal(x)

		p, err := pool.NewPage()
		common.PanicIfErr(err)

		copy(p.GetData()[disk.PageSize-len(b):], b)
		pageIDs = append(pageIDs, p.GetPageId())
		pool.Unpin(p.GetPageId(), true)
	}

	for _, pid := range pageIDs {
		p, err := pool.GetPage(pid)
		common.PanicIfErr(err)
		logger.Debugf("page %d: %s", pid, string(p.GetData()[disk.PageSize-64:]))
		pool.Unpin(pid, false)
	}

	common.PanicIfErr(pool.FlushAll())
	logger.Infof("round tripped %d pages through a %d frame pool", len(pageIDs), cfg.PoolSize)
}
