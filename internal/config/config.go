package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// S3Config holds the object storage credentials and target bucket.
type S3Config struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// RedshiftConfig holds the analytics store connection parameters.
type RedshiftConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DBName   string `mapstructure:"dbname"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// JobConfig carries the naming conventions and fixed labels of the load.
// Every field has a default; a config file only needs to override what differs.
type JobConfig struct {
	FilePrefix    string `mapstructure:"file_prefix"`
	FileExtension string `mapstructure:"file_extension"`
	InAppMarker   string `mapstructure:"inapp_marker"`
	Campaign      string `mapstructure:"campaign"`
	DesktopSource string `mapstructure:"desktop_source"`
	InAppSource   string `mapstructure:"inapp_source"`
	Schema        string `mapstructure:"schema"`
	Table         string `mapstructure:"table"`
	AdSource      string `mapstructure:"ad_source"`
	ProdFolder    string `mapstructure:"prod_folder"`
	BackupFolder  string `mapstructure:"backup_folder"`
}

type Config struct {
	S3       S3Config       `mapstructure:"aws_s3"`
	Redshift RedshiftConfig `mapstructure:"aws_redshift"`
	Job      JobConfig      `mapstructure:"job"`
}

var jobDefaults = map[string]string{
	"job.file_prefix":    "Retargeting_BR_Amaro_",
	"job.file_extension": ".xlsx",
	"job.inapp_marker":   "InApp",
	"job.campaign":       "lowerfunnel",
	"job.desktop_source": "br_amaro",
	"job.inapp_source":   "br_amaro_inapp",
	"job.schema":         "manual_data_sources",
	"job.table":          "rtb_ad_cost",
	"job.ad_source":      "rtb-ad-cost",
	"job.prod_folder":    "performance-marketing/import-spend-tracking-data/rtb/prod",
	"job.backup_folder":  "performance-marketing/import-spend-tracking-data/rtb/bkp",
}

// Load reads the configuration from a YAML file and returns a Config instance.
// When path is empty, config.yaml is looked up in the current directory and ./config.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	for key, value := range jobDefaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every required credential field that is empty.
func (c *Config) Validate() error {
	var missing []string

	required := []struct {
		key   string
		value string
	}{
		{"aws_s3.access_key", c.S3.AccessKey},
		{"aws_s3.secret_key", c.S3.SecretKey},
		{"aws_s3.bucket", c.S3.Bucket},
		{"aws_s3.region", c.S3.Region},
		{"aws_redshift.host", c.Redshift.Host},
		{"aws_redshift.dbname", c.Redshift.DBName},
		{"aws_redshift.user", c.Redshift.User},
		{"aws_redshift.password", c.Redshift.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if c.Redshift.Port == 0 {
		missing = append(missing, "aws_redshift.port")
	}

	if len(missing) > 0 {
		return errors.Errorf("incomplete config, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DSN returns the lib/pq connection string for the analytics store.
func (r RedshiftConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(r.User, r.Password),
		Host:   fmt.Sprintf("%s:%d", r.Host, r.Port),
		Path:   "/" + r.DBName,
	}
	q := u.Query()
	q.Set("sslmode", "require")
	u.RawQuery = q.Encode()
	return u.String()
}

// QualifiedTable returns the schema-qualified destination table name.
func (j JobConfig) QualifiedTable() string {
	return j.Schema + "." + j.Table
}
