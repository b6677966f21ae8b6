package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Presensi Guru API",
        "description": "Guru attendance platform: teaching, activity, and meeting presence",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and identity"},
        {"name": "Mengajar", "description": "Teaching schedule and attendance"},
        {"name": "Kegiatan", "description": "Activity attendance"},
        {"name": "Rapat", "description": "Meeting attendance"},
        {"name": "Riwayat", "description": "Attendance history"},
        {"name": "Dashboard", "description": "Today's obligations"},
        {"name": "Admin", "description": "Monthly recaps and corrections"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate guru",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current guru info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/jadwal/hari-ini": {
            "get": {
                "tags": ["Mengajar"],
                "summary": "Today's teaching slots with derived status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/jadwal/minggu": {
            "get": {
                "tags": ["Mengajar"],
                "summary": "Teaching slots for the next seven days",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/mengajar": {
            "post": {
                "tags": ["Mengajar"],
                "summary": "File teaching attendance for a slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitMengajarRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/mengajar/{jadwalID}": {
            "get": {
                "tags": ["Mengajar"],
                "summary": "Filed teaching attendance detail",
                "parameters": [
                    {"name": "jadwalID", "in": "path", "required": true, "type": "string"},
                    {"name": "tanggal", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/kegiatan": {
            "get": {
                "tags": ["Kegiatan"],
                "summary": "Activities where the guru is PJ or pendamping",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/kegiatan/{id}/absensi": {
            "post": {
                "tags": ["Kegiatan"],
                "summary": "PJ submits the activity record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitKegiatanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/kegiatan/{id}/absensi-pendamping": {
            "post": {
                "tags": ["Kegiatan"],
                "summary": "Pendamping self report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelfReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/rapat": {
            "get": {
                "tags": ["Rapat"],
                "summary": "Meetings where the guru is obligated",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/rapat/{id}/absensi-pimpinan": {
            "post": {
                "tags": ["Rapat"],
                "summary": "Pimpinan self report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelfReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/rapat/{id}/absensi-peserta": {
            "post": {
                "tags": ["Rapat"],
                "summary": "Peserta self report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelfReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/rapat/{id}/absensi-sekretaris": {
            "post": {
                "tags": ["Rapat"],
                "summary": "Sekretaris submits the meeting record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRapatRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/rapat/{id}/status-peserta": {
            "get": {
                "tags": ["Rapat"],
                "summary": "Participant attended-yet check",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/riwayat/mengajar": {
            "get": {
                "tags": ["Riwayat"],
                "summary": "Teaching history",
                "parameters": [
                    {"name": "dari", "in": "query", "type": "string"},
                    {"name": "sampai", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/riwayat/kegiatan": {
            "get": {
                "tags": ["Riwayat"],
                "summary": "Activity history",
                "parameters": [
                    {"name": "dari", "in": "query", "type": "string"},
                    {"name": "sampai", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/riwayat/rapat": {
            "get": {
                "tags": ["Riwayat"],
                "summary": "Meeting history",
                "parameters": [
                    {"name": "dari", "in": "query", "type": "string"},
                    {"name": "sampai", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guru/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Today's obligations across all types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/rekap/guru": {
            "get": {
                "tags": ["Admin"],
                "summary": "Monthly teacher roll-up grid",
                "parameters": [
                    {"name": "bulan", "in": "query", "type": "integer"},
                    {"name": "tahun", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/rekap/kelas/{kelas}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Monthly class/student grid",
                "parameters": [
                    {"name": "kelas", "in": "path", "required": true, "type": "string"},
                    {"name": "bulan", "in": "query", "type": "integer"},
                    {"name": "tahun", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/kegiatan/{id}/absensi": {
            "put": {
                "tags": ["Admin"],
                "summary": "Correct an activity record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitKegiatanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitMengajarRequest": {
            "type": "object",
            "required": ["jadwal_id"],
            "properties": {
                "jadwal_id": {"type": "string"},
                "guru_status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "guru_keterangan": {"type": "string"},
                "materi": {"type": "string"},
                "catatan": {"type": "string"},
                "siswa": {"type": "array", "items": {"$ref": "#/definitions/SiswaStatusItem"}}
            }
        },
        "SiswaStatusItem": {
            "type": "object",
            "required": ["siswa_id", "status"],
            "properties": {
                "siswa_id": {"type": "string"},
                "nama": {"type": "string"},
                "status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "keterangan": {"type": "string"}
            }
        },
        "PartyStatusItem": {
            "type": "object",
            "required": ["guru_id", "status"],
            "properties": {
                "guru_id": {"type": "string"},
                "status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "keterangan": {"type": "string"}
            }
        },
        "SubmitKegiatanRequest": {
            "type": "object",
            "required": ["pj_status", "foto"],
            "properties": {
                "pj_status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "pj_keterangan": {"type": "string"},
                "pendamping": {"type": "array", "items": {"$ref": "#/definitions/PartyStatusItem"}},
                "siswa": {"type": "array", "items": {"$ref": "#/definitions/SiswaStatusItem"}},
                "catatan": {"type": "string"},
                "foto": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SubmitRapatRequest": {
            "type": "object",
            "required": ["pimpinan_status", "sekretaris_status", "notulensi", "foto"],
            "properties": {
                "pimpinan_status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "sekretaris_status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "peserta": {"type": "array", "items": {"$ref": "#/definitions/PartyStatusItem"}},
                "notulensi": {"type": "string"},
                "foto": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SelfReportRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["H", "I", "S", "A"]},
                "keterangan": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
