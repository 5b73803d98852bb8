package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portwatch/internal/collector"
)

var (
	killPorts  []int
	killSignal string
	killYes    bool
)

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "Kill processes listening on specified ports",
	Long: `Kill processes that are listening on the specified ports.

Examples:
  portwatch kill --port 8080
  portwatch kill --port 8080,3000,5432
  portwatch kill -p 8080 -p 3000
  portwatch kill --port 8080 --signal SIGKILL --yes`,
	RunE: runKill,
}

func init() {
	killCmd.Flags().IntSliceVarP(&killPorts, "port", "p", nil, "Port(s) to kill processes on (required, can specify multiple)")
	killCmd.Flags().StringVarP(&killSignal, "signal", "s", "SIGTERM", "Signal to send (SIGTERM, SIGKILL, SIGHUP, SIGINT, SIGQUIT or numeric)")
	killCmd.Flags().BoolVarP(&killYes, "yes", "y", false, "Skip confirmation prompt")
	_ = killCmd.MarkFlagRequired("port")
	rootCmd.AddCommand(killCmd)
}

type killTarget struct {
	pid  int32
	name string
	port uint16
}

func runKill(cmd *cobra.Command, args []string) error {
	if _, ok := collector.LookupSignal(killSignal); !ok {
		return fmt.Errorf("unknown signal: %s", killSignal)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := collector.New()
	records, err := c.FetchPorts(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect port data: %w", err)
	}

	portSet := make(map[uint16]bool, len(killPorts))
	for _, p := range killPorts {
		if p > 0 && p <= 65535 {
			portSet[uint16(p)] = true
		}
	}

	// A PID can hold several ports and a port may show several records;
	// dedupe on (pid, port).
	seen := make(map[string]bool)
	var targets []killTarget

	for _, rec := range records {
		if rec.PID <= 0 || !portSet[rec.Port] {
			continue
		}
		key := fmt.Sprintf("%d:%d", rec.PID, rec.Port)
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, killTarget{
			pid:  rec.PID,
			name: rec.ProcessName,
			port: rec.Port,
		})
	}

	if len(targets) == 0 {
		fmt.Println("No processes found on specified port(s)")
		return nil
	}

	fmt.Println("Processes to kill:")
	for _, t := range targets {
		fmt.Printf("  PID %d (%s) on port %d\n", t.pid, t.name, t.port)
	}
	fmt.Printf("Signal: %s\n", killSignal)

	if !killYes {
		fmt.Print("\nProceed? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	var killed, failed int
	for _, t := range targets {
		res := c.KillProcess(t.pid, killSignal)
		fmt.Println(res.Message)
		if res.Success {
			killed++
		} else {
			failed++
		}
	}

	fmt.Printf("\nKilled: %d, Failed: %d\n", killed, failed)
	if failed > 0 {
		return fmt.Errorf("%d process(es) could not be killed", failed)
	}
	return nil
}
