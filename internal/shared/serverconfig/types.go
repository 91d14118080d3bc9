package serverconfig

import "time"

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	WSPath   string `yaml:"ws_path" mapstructure:"ws_path"`
	SecureWS bool   `yaml:"secure_ws" mapstructure:"secure_ws"`
}

type GRPCServerConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// EngineConfig 游戏引擎参数，时长字段支持 "60s"、"2m" 写法。
type EngineConfig struct {
	Storage            string        `yaml:"storage" mapstructure:"storage"` // memory / mongodb
	CatalogFile        string        `yaml:"catalog_file" mapstructure:"catalog_file"`
	ProductionInterval time.Duration `yaml:"production_interval" mapstructure:"production_interval"`
	MaxCatchUpTicks    int           `yaml:"max_catch_up_ticks" mapstructure:"max_catch_up_ticks"`
	AIInterval         time.Duration `yaml:"ai_interval" mapstructure:"ai_interval"`
	AICount            int           `yaml:"ai_count" mapstructure:"ai_count"`
	AIDifficulty       string        `yaml:"ai_difficulty" mapstructure:"ai_difficulty"`
	LoopMaxBackoff     time.Duration `yaml:"loop_max_backoff" mapstructure:"loop_max_backoff"`
	AskTimeout         time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ConflictRetries    int           `yaml:"conflict_retries" mapstructure:"conflict_retries"`
	BattleLogCapacity  int           `yaml:"battle_log_capacity" mapstructure:"battle_log_capacity"`
	NodeID             int64         `yaml:"node_id" mapstructure:"node_id"` // 城市 id 的节点号，0~1023
}

const (
	StorageMemory  = "memory"
	StorageMongoDB = "mongodb"
)

// ApplyDefaults 补齐未配置的字段。
func (c *Config) ApplyDefaults() {
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.HTTPServer.WSPath == "" {
		c.HTTPServer.WSPath = "/ws"
	}
	if c.GRPCServer.Port == 0 {
		c.GRPCServer.Port = 9090
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "empire"
	}

	e := &c.Engine
	if e.Storage == "" {
		e.Storage = StorageMemory
	}
	if e.ProductionInterval <= 0 {
		e.ProductionInterval = 60 * time.Second
	}
	if e.MaxCatchUpTicks <= 0 {
		e.MaxCatchUpTicks = 1440
	}
	if e.AIInterval <= 0 {
		e.AIInterval = 30 * time.Second
	}
	if e.AIDifficulty == "" {
		e.AIDifficulty = "normal"
	}
	if e.LoopMaxBackoff <= 0 {
		e.LoopMaxBackoff = 5 * time.Minute
	}
	if e.AskTimeout <= 0 {
		e.AskTimeout = 3 * time.Second
	}
	if e.IdleTimeout <= 0 {
		e.IdleTimeout = 10 * time.Minute
	}
	if e.ConflictRetries <= 0 {
		e.ConflictRetries = 3
	}
	if e.BattleLogCapacity <= 0 {
		e.BattleLogCapacity = 10000
	}
}
