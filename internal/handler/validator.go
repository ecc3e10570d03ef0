package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 参数校验错误翻译器，由 InitTrans 设置
var Trans ut.Translator

// InitTrans 初始化 gin 校验器的错误翻译，locale 取 "zh" 或 "en"
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// 错误信息里的字段名与请求参数一致：优先 json tag，其次 form tag
	v.RegisterTagNameFunc(fieldName)

	enT, zhT := en.New(), zh.New()
	uni := ut.New(enT, zhT, enT)
	Trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	if locale == "zh" {
		return zh_translations.RegisterDefaultTranslations(v, Trans)
	}
	return en_translations.RegisterDefaultTranslations(v, Trans)
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// RemoveTopStruct 去掉 "RegisterRequest.handle" 中的结构体前缀
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, msg := range fields {
		res[field[strings.Index(field, ".")+1:]] = msg
	}
	return res
}
