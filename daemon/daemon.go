package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
)

// the special environment variable for this sub process to background running
const ENV_NAME = "BK_DAEMON_IDX"

// call the function of background's count, used to judge the main or sub process.
var runIdx int = 0

// Background, start a sub process background, and exit itself.
// logFile, if it is not empty, the stderr and stdout will output it.
// isExit, if true, the main process exit(0), else return *os.Process in the main process and nil in the sub process.
func Background(logFile string, isExit bool) (*exec.Cmd, error) {
	runIdx++
	envIdx, err := strconv.Atoi(os.Getenv(ENV_NAME))
	if err != nil {
		envIdx = 0
	}
	if runIdx <= envIdx { //if sub process call this function, directly return.
		return nil, nil
	}

	//set the evironment available of sub process
	env := os.Environ()
	env = append(env, fmt.Sprintf("%s=%d", ENV_NAME, runIdx))

	//start sub process
	cmd, err := startProc(os.Args, env, logFile)
	if err != nil {
		fmt.Println(os.Getpid(), "process start error : ", err)
		return nil, err
	} else {
		fmt.Println("process start success!")
	}

	if isExit {
		os.Exit(0)
	}
	return cmd, nil
}

// wait for a kill(9) single to exit
func WaitForKill() {
	if pid := os.Getpid(); pid != 1 {
		os.WriteFile("process.pid", []byte(strconv.Itoa(pid)), 0666)
		os.WriteFile("stop.sh", []byte("kill `cat process.pid`"), 0777)
		defer os.Remove("process.pid")
		defer os.Remove("stop.sh")
	}
	ch := make(chan os.Signal, 1)
	// kill (no param) default send syscanll.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be catch, so don't need add it
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	fmt.Printf("process stop. %d : %d \n", s, os.Getpid())
}

// start a new process
func startProc(args, env []string, logFile string) (*exec.Cmd, error) {
	cmd := &exec.Cmd{
		Path: args[0],
		Args: args,
		Env:  env,
		SysProcAttr: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	if logFile != "" {
		stdout, err := os.OpenFile(logFile, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
		if err != nil {
			fmt.Println(os.Getpid(), " : open log file error : ", err)
			return nil, err
		}
		cmd.Stderr = stdout
		cmd.Stdout = stdout
	}

	err := cmd.Start()
	if err != nil {
		return nil, err
	}

	return cmd, nil
}
