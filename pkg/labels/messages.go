package labels

import (
	"fmt"
	"strings"
)

// User-facing messages
const (
	InventoryTitle   = "Inventario de Bobinas"
	HistoryTitle     = "Histórico de Inventario"
	NoData           = "No se encontraron datos."
	NoSnapshot       = "No se encontró un archivo CSV válido aún."
	NoHistoryFiles   = "No se encontraron archivos con el formato esperado."
	HistoryFailed    = "No se pudo calcular el histórico"
	OtherWidths      = "Otros widths"
	HideOtherWidths  = "Ocultar adicionales"
	UnrecognisedName = "nombre no reconocido"
)

// LatestFile is shown above the inventory
func LatestFile(relativePath string) string {
	return "Último archivo cargado: " + relativePath
}

// HistorySubtitle describes which files the history is built from
func HistorySubtitle(maxDays int) string {
	if maxDays > 0 {
		return fmt.Sprintf("Último archivo de cada día (máx. %d días)", maxDays)
	}
	return "Último archivo de cada día"
}

// Rolls renders "1 rollo" / "N rollos"
func Rolls(n int) string {
	if n == 1 {
		return Count(n) + " rollo"
	}
	return Count(n) + " rollos"
}

// Variants renders "1 variante" / "N variantes"
func Variants(n int) string {
	if n == 1 {
		return Count(n) + " variante"
	}
	return Count(n) + " variantes"
}

// ShowMore is the label of the collapsed other-widths toggle
func ShowMore(n int) string {
	return fmt.Sprintf("Mostrar %d", n)
}

// Days renders "1 día" / "N días"
func Days(n int) string {
	if n == 1 {
		return Count(n) + " día"
	}
	return Count(n) + " días"
}

// Command status messages
const (
	Loading           = "Cargando..."
	Refreshing        = "Actualizando..."
	Ready             = "Listo"
	Copied            = "Copiado al portapapeles"
	CopyFailed        = "No se pudo copiar al portapapeles"
	LoadFailed        = "No se pudo cargar el inventario"
	ListFailed        = "No se pudieron listar los archivos"
	ChartFailed       = "No se pudo escribir el gráfico"
	WatchFailed       = "No se pudo vigilar la carpeta"
	StopHint          = "Presiona Ctrl+C para detener"
	SearchHint        = "Presiona / para buscar..."
	HelpTitle         = "Bobina Dashboard - Atajos de teclado"
	HelpReturn        = "Presiona ESC o ? para volver"
	TabInventory      = "Inventario"
	TabHistory        = "Histórico"
	TrendHelp         = "↑↓/jk: Navegar │ Tab: Días/Meses │ s: Saldo/Completa │ q/Esc: Salir"
	PickPrompt        = "Archivo > "
	SetupHint         = "Ejecuta 'bobina init <carpeta>' o usa --dir <carpeta>"
	ConfigMissingHint = "Ejecuta 'bobina init' para crearla"
	ConfigDirsFailed  = "No se pudo determinar la ubicación de la configuración"
	ConfigExists      = "La configuración ya existe"
	ConfigExistsHint  = "Usa 'bobina init <carpeta>' para cambiar la carpeta o --force para reiniciarla"
	Initializing      = "Inicializando bobina..."
	CreateDirsFailed  = "No se pudieron crear los directorios"
	ConfigWriteFailed = "No se pudo escribir la configuración"
	ConfigWritten     = "Configuración guardada"
	NoFolder          = "(ninguna, usa --dir o 'bobina init <carpeta>')"
	NextSteps         = "Próximos pasos:"
	CheckingLatest    = "Revisando el último archivo..."
	StatsTitle        = "Estadísticas de archivos"
	ExportsLastWeek   = "Exportaciones (últimos 7 días)"
	TopPaperCodes     = "Paper codes con más rollos"
	ConsecutiveDays   = "Días consecutivos:"
	LastExport        = "Última exportación:"
	AppTagline        = "Visor de inventario de bobinas"
)

// Folder labels the snapshot folder
func Folder(path string) string {
	return "Carpeta: " + path
}

// Watching announces the folder followed by watch
func Watching(path string) string {
	return "Vigilando " + path
}

// Location labels a file path
func Location(path string) string {
	return "Ubicación: " + path
}

// OpeningConfig announces the config file being opened
func OpeningConfig(path string) string {
	return "Abriendo configuración: " + path
}

// ConfigIgnored reports a config file that could not be read
func ConfigIgnored(err error) string {
	return "Configuración existente ignorada: " + err.Error()
}

// MissingColumns lists the expected columns absent from a snapshot
func MissingColumns(cols []string) string {
	return "Columnas faltantes: " + strings.Join(cols, ", ")
}

// WithError appends err to a failure message
func WithError(message string, err error) string {
	return message + ": " + err.Error()
}
