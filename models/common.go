package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type LocalTime time.Time

func NowLocal() LocalTime {
	return LocalTime(time.Now())
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", time.Time(t).Format("2006-01-02 15:04:05"))), nil
}

func (t LocalTime) Value() (driver.Value, error) {
	tl := time.Time(t)
	if tl.IsZero() {
		return nil, nil
	}
	return tl, nil
}

func (t *LocalTime) Scan(v interface{}) error {
	if v == nil {
		return nil
	}
	if value, ok := v.(time.Time); ok {
		*t = LocalTime(value)
		return nil
	}
	return fmt.Errorf("can not convert %v to timestamp", v)
}

func (LocalTime) GormDataType() string {
	return "datetime"
}
