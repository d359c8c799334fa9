package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

// 压测工具：多个用户并发登录、打卡、查询日历与日志，并校验同一用户并发打卡只成功一次

type APITestStats struct {
	mu        sync.Mutex
	total     int
	success   int
	failed    int
	latencies []time.Duration
}

func (s *APITestStats) Add(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if success {
		s.success++
		s.latencies = append(s.latencies, latency)
	} else {
		s.failed++
	}
}

func (s *APITestStats) Report(took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Println("\n=== HTTP API测试结果 ===")
	fmt.Printf("耗时: %v\n", took)
	fmt.Printf("总请求: %d 成功: %d 失败: %d\n", s.total, s.success, s.failed)
	if len(s.latencies) > 0 {
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		var sum time.Duration
		for _, l := range s.latencies {
			sum += l
		}
		fmt.Printf("延迟 平均: %v P50: %v P99: %v 最大: %v\n",
			sum/time.Duration(len(s.latencies)),
			s.latencies[len(s.latencies)/2],
			s.latencies[len(s.latencies)*99/100],
			s.latencies[len(s.latencies)-1],
		)
	}
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(s.success)/took.Seconds())
	}
}

type client struct {
	base string
	http *http.Client
}

func (c *client) do(method, path, token string, body interface{}) (int, []byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes(), err
}

func (c *client) login(phone, code string) (string, error) {
	status, body, err := c.do(http.MethodPost, "/api/auth/verify-phone", "", map[string]string{"phone": phone, "code": code})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("登录失败: %d %s", status, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// hit 打卡接口 400 表示今天已打卡，同样视为正常响应
func (c *client) hit(stats *APITestStats, method, path, token string) {
	start := time.Now()
	status, _, err := c.do(method, path, token, nil)
	ok := err == nil && (status == http.StatusOK || (path == "/api/checkin" && status == http.StatusBadRequest))
	stats.Add(ok, time.Since(start))
}

func runUsers(c *client, users, perUser int, code string) {
	fmt.Println("\n=== HTTP API并发测试开始 ===")
	fmt.Printf("目标: %s 用户: %d 每用户请求轮数: %d\n", c.base, users, perUser)

	stats := &APITestStats{}
	endpoints := []struct{ method, path string }{
		{http.MethodPost, "/api/checkin"},
		{http.MethodGet, "/api/checkin/status"},
		{http.MethodGet, "/api/checkin/calendar"},
		{http.MethodGet, "/api/logs?page=1&per_page=20"},
		{http.MethodGet, "/api/auth/me"},
	}

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			token, err := c.login(fmt.Sprintf("139%08d", id), code)
			if err != nil {
				fmt.Println(err)
				stats.Add(false, 0)
				return
			}
			for j := 0; j < perUser; j++ {
				for _, ep := range endpoints {
					c.hit(stats, ep.method, ep.path, token)
				}
			}
		}(i)
	}
	wg.Wait()
	stats.Report(time.Since(start))
}

// runDuplicateCheckin 同一用户并发打卡，期望恰好一次成功
func runDuplicateCheckin(c *client, concurrency int, code string) bool {
	fmt.Println("\n=== 并发重复打卡测试 ===")
	token, err := c.login(fmt.Sprintf("138%08d", time.Now().Unix()%100000000), code)
	if err != nil {
		fmt.Println(err)
		return false
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[int]int{}
	)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := c.do(http.MethodPost, "/api/checkin", token, nil)
			if err != nil {
				status = -1
			}
			mu.Lock()
			results[status]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	fmt.Printf("结果: %v\n", results)
	return results[http.StatusOK] <= 1 && results[-1] == 0 && results[http.StatusInternalServerError] == 0
}

func main() {
	base := flag.String("base", "http://localhost:5000", "服务地址")
	users := flag.Int("users", 20, "并发用户数")
	perUser := flag.Int("rounds", 10, "每个用户的请求轮数")
	dup := flag.Int("dup", 20, "同一用户并发打卡数")
	code := flag.String("code", "123456", "短信验证码")
	flag.Parse()

	c := &client{base: *base, http: &http.Client{Timeout: 8 * time.Second}}

	fmt.Println("=== 陪伴App 并发测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	runUsers(c, *users, *perUser, *code)
	if !runDuplicateCheckin(c, *dup, *code) {
		fmt.Println("并发打卡校验失败")
		os.Exit(1)
	}
	fmt.Println("\n=== 测试完成 ===")
}
