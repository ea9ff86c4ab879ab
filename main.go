package main

import (
	"os"

	"xcasset/config"
	"xcasset/daemon"
	"xcasset/engine"
	"xcasset/gl"
	"xcasset/model"
)

func main() {
	if len(os.Args) == 2 && os.Args[1] == "daemon" {
		daemon.Background("./out.log", true)
	}

	config.Load("./config/conf.toml")

	gl.CreateLogFiles()

	model.ConnectToMysql()

	gateway := engine.NewGateway()
	if err := gateway.CheckHealth(); err != nil {
		gl.OutLogger.Error("health check error. %v", err)
	}
	gateway.Start()

	daemon.WaitForKill()

	close(gl.CleanupChan)
	gl.TopWaitGroup.Wait()
}
