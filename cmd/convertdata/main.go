// Command convertdata turns the raw province/district/ward JSON dumps this
// system has always shipped with (storage/province.json, district.json,
// ward.json) into the three semicolon-delimited catalog files
// internal/catalog.Load reads at startup.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
)

type jsonProvince struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type jsonDistrict struct {
	ID         int    `json:"id"`
	ProvinceID int    `json:"province_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
}

type jsonWard struct {
	ID         int    `json:"id"`
	DistrictID int    `json:"district_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

func main() {
	storageDir := flag.String("storage", "storage", "directory holding province.json, district.json, ward.json")
	outDir := flag.String("out", "data", "directory to write provinces.csv, districts.csv, wards.csv into")
	flag.Parse()

	provinces, err := loadJSON[jsonProvince](*storageDir + "/province.json")
	if err != nil {
		log.Fatalf("load provinces: %v", err)
	}
	districts, err := loadJSON[jsonDistrict](*storageDir + "/district.json")
	if err != nil {
		log.Fatalf("load districts: %v", err)
	}
	wards, err := loadJSON[jsonWard](*storageDir + "/ward.json")
	if err != nil {
		log.Fatalf("load wards: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	if err := writeDelimited(*outDir+"/provinces.csv", len(provinces), func(w *csv.Writer) {
		for _, p := range provinces {
			w.Write([]string{fmt.Sprint(p.ID), p.Name, p.Code})
		}
	}); err != nil {
		log.Fatalf("write provinces: %v", err)
	}

	if err := writeDelimited(*outDir+"/districts.csv", len(districts), func(w *csv.Writer) {
		for _, d := range districts {
			w.Write([]string{fmt.Sprint(d.ID), d.Name, d.Code, fmt.Sprint(d.ProvinceID)})
		}
	}); err != nil {
		log.Fatalf("write districts: %v", err)
	}

	active := 0
	if err := writeDelimited(*outDir+"/wards.csv", len(wards), func(w *csv.Writer) {
		for _, ward := range wards {
			if ward.Status != "" && ward.Status != "1" {
				continue
			}
			active++
			w.Write([]string{fmt.Sprint(ward.ID), ward.Name, ward.Code, fmt.Sprint(ward.DistrictID)})
		}
	}); err != nil {
		log.Fatalf("write wards: %v", err)
	}

	fmt.Printf("converted %d provinces, %d districts, %d wards (of %d) into %s\n",
		len(provinces), len(districts), active, len(wards), *outDir)
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	err = json.Unmarshal(data, &out)
	return out, err
}

func writeDelimited(path string, _ int, write func(w *csv.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	write(w)
	w.Flush()
	return w.Error()
}
