package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	DB      DBConfig      `yaml:"db"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	XQueue  XQueueConfig  `yaml:"xqueue"`
	Grading GradingConfig `yaml:"grading"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` //nolint:gosec // config struct, not hardcoded cred
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type XQueueConfig struct {
	URL          string        `yaml:"url"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"` //nolint:gosec // config struct, not hardcoded cred
	QueueName    string        `yaml:"queue_name"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type GradingConfig struct {
	// InstructorGradedThreshold is the per-location count of instructor
	// activity past which instructors are no longer handed submissions.
	InstructorGradedThreshold int `yaml:"instructor_graded_threshold"`
	// RequiredPeerGrades is the number of successful peer grades that
	// finalizes a submission on the peer path.
	RequiredPeerGrades int `yaml:"required_peer_grades"`
	// FirstGraderType routes freshly ingested submissions.
	FirstGraderType string        `yaml:"first_grader_type"`
	ResultsInterval time.Duration `yaml:"results_interval"`
}

func Load() (*Config, error) {
	configPath := getConfigPath()
	data, err := os.ReadFile(configPath) //nolint:gosec // config path from env/flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	possiblePaths := []string{
		"config/config.yaml",
		"/etc/grading-service/config.yaml",
		"./config.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "config.yaml"
}

func setDefaults(cfg *Config) {
	if cfg.XQueue.Timeout == 0 {
		cfg.XQueue.Timeout = 10 * time.Second
	}
	if cfg.XQueue.PollInterval == 0 {
		cfg.XQueue.PollInterval = 5 * time.Second
	}
	if cfg.Grading.InstructorGradedThreshold == 0 {
		cfg.Grading.InstructorGradedThreshold = 20
	}
	if cfg.Grading.RequiredPeerGrades == 0 {
		cfg.Grading.RequiredPeerGrades = 3
	}
	if cfg.Grading.FirstGraderType == "" {
		cfg.Grading.FirstGraderType = "ML"
	}
	if cfg.Grading.ResultsInterval == 0 {
		cfg.Grading.ResultsInterval = time.Minute
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "grading-events"
	}
}

func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("DB_HOST"); val != "" {
		cfg.DB.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.DB.Port = port
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		cfg.DB.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		cfg.DB.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		cfg.DB.DBName = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		cfg.DB.SSLMode = val
	}

	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		cfg.Kafka.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("KAFKA_TOPIC"); val != "" {
		cfg.Kafka.Topic = val
	}

	if val := os.Getenv("XQUEUE_URL"); val != "" {
		cfg.XQueue.URL = val
	}
	if val := os.Getenv("XQUEUE_USERNAME"); val != "" {
		cfg.XQueue.Username = val
	}
	if val := os.Getenv("XQUEUE_PASSWORD"); val != "" {
		cfg.XQueue.Password = val
	}
	if val := os.Getenv("XQUEUE_QUEUE_NAME"); val != "" {
		cfg.XQueue.QueueName = val
	}
	if val := os.Getenv("XQUEUE_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.XQueue.Timeout = time.Duration(timeout) * time.Second
		}
	}
	if val := os.Getenv("XQUEUE_POLL_INTERVAL"); val != "" {
		if interval, err := strconv.Atoi(val); err == nil {
			cfg.XQueue.PollInterval = time.Duration(interval) * time.Second
		}
	}

	if val := os.Getenv("INSTRUCTOR_GRADED_THRESHOLD"); val != "" {
		if threshold, err := strconv.Atoi(val); err == nil {
			cfg.Grading.InstructorGradedThreshold = threshold
		}
	}
	if val := os.Getenv("REQUIRED_PEER_GRADES"); val != "" {
		if count, err := strconv.Atoi(val); err == nil {
			cfg.Grading.RequiredPeerGrades = count
		}
	}
	if val := os.Getenv("FIRST_GRADER_TYPE"); val != "" {
		cfg.Grading.FirstGraderType = val
	}
}

func validateConfig(cfg *Config) error {
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.DBName == "" {
		return fmt.Errorf("database configuration is incomplete")
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one Kafka broker must be specified")
	}

	if cfg.XQueue.URL == "" {
		return fmt.Errorf("xqueue url must be set")
	}

	if cfg.XQueue.QueueName == "" {
		return fmt.Errorf("xqueue queue name must be set")
	}

	switch cfg.Grading.FirstGraderType {
	case "ML", "IN", "PE", "BC":
	default:
		return fmt.Errorf("first_grader_type must be one of ML, IN, PE, BC")
	}

	return nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
