package config

import (
	"os"
	"strconv"
)

const DATABASE_TYPE = "FEYES_DATABASE_TYPE"
const DATABASE_URL = "FEYES_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "FEYES_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "FEYES_SERVER_WEB_PORT"
const WEB_SESSION_EXPIRY_HOURS = "FEYES_WEB_SESSION_EXPIRY_HOURS"
const BOOTSTRAP_ADMIN_USERNAME = "FEYES_BOOTSTRAP_ADMIN_USERNAME"
const BOOTSTRAP_ADMIN_PASSWORD = "FEYES_BOOTSTRAP_ADMIN_PASSWORD"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	if settingKey == SERVER_WEB_PORT {
		return "8080"
	}
	if settingKey == WEB_SESSION_EXPIRY_HOURS {
		return "1"
	}
	if settingKey == DATABASE_SQLLITE_FILE_NAME {
		return "./foureyes.db"
	}
	if settingKey == BOOTSTRAP_ADMIN_USERNAME {
		return "admin"
	}
	return ""
}
