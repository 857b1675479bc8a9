package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Анализ сертификатов
	ExtractionEmpty      failure.ErrorCode = "ExtractionEmpty"      // Экстрактор вернул пустой результат
	ExtractionError      failure.ErrorCode = "ExtractionError"      // Экстрактор вернул объект {"error": ...}
	InvalidCertificate   failure.ErrorCode = "InvalidCertificate"   // certificate_data не объект и не массив объектов
	InvalidSpecification failure.ErrorCode = "InvalidSpecification" // Файл или ответ со спецификациями не разобран
	SpecNotFound         failure.ErrorCode = "SpecNotFound"         // Спецификации для оборудования не найдены
	ExtractionDisabled   failure.ErrorCode = "ExtractionDisabled"   // Сервис извлечения не настроен
)
