package sqlite

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.UnixMicro()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.UnixMicro(i)
	return nil
}

func convertToDB_Point(p geom.Point3) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(p))
}

func convertFromDB_Point(s string, target *geom.Point3) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	var p geom.Point3
	n, err := rezi.DecBinary(data, &p)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%d trailing bytes after point", len(data)-n)
	}
	*target = p
	return nil
}

func convertToDB_Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
